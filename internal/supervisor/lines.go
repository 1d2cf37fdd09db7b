package supervisor

import (
	"bufio"
	"bytes"
)

// splitTerminalLines returns a bufio.SplitFunc that ends a line at "\n",
// "\r\n" or a bare "\r". Progress meters such as dd's redraw one line with
// "\r"; each redraw becomes its own line. A "\r" that starts a token is
// skipped. Lines longer than limit bytes are cut into limit-sized pieces;
// a limit <= 0 disables cutting.
func splitTerminalLines(limit int) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		full := limit > 0 && len(data) >= limit

		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			if atEOF {
				return len(data), data, nil
			}
			if full {
				return limit, data[:limit], nil
			}
			return 0, nil, nil
		}

		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}

		// data[i] == '\r'
		if i+1 >= len(data) && !atEOF && !full {
			// need one more byte to tell "\r\n" from "\r"
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		if i == 0 {
			return 1, nil, nil
		}
		return i + 1, data[:i], nil
	}
}
