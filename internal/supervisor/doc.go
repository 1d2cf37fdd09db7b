// Package supervisor runs wipe scripts in the background and hands their
// output to a caller that polls.
//
// A Process owns one child started in its own process group. A reader
// goroutine splits the merged stdout/stderr stream into lines and queues
// them; Poll drains that queue without ever blocking, so a render loop can
// call it every frame:
//
//	proc := sup.Launch(path, "/dev/sdb", "ext4", "zeros", "1")
//	for {
//	    res := proc.Poll()
//	    show(res.Lines)
//	    if res.Finished {
//	        break
//	    }
//	    time.Sleep(50 * time.Millisecond)
//	}
//
// Launch never returns an error. A child that cannot be started shows up as
// an already finished process whose single output line describes the
// failure and whose exit code is ExitCodeLaunchFailed.
package supervisor
