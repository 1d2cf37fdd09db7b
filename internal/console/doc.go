// Package console is the navigation state machine behind the uee terminal
// interface.
//
// The machine owns an App value: the current State, the highlighted row,
// the drive inventory snapshot, the live WipeConfig and the message log.
// Front ends translate input into Key values and confirmation strings, call
// Tick regularly so a running script's output keeps flowing, and draw
// whatever View returns. Nothing in this package touches the terminal.
//
// A destructive script is only ever launched from a confirmation state:
// ConfirmFormat requires the target device's basename to be typed exactly,
// ConfirmAndroidWipe requires CONFIRM.
package console
