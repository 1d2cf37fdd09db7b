package tui

import "strings"

const titleArt = `UUUUUUUU     UUUUUUUU     EEEEEEEEEEEEEEEEEEEEEE     EEEEEEEEEEEEEEEEEEEEEE
U::::::U     U::::::U     E::::::::::::::::::::E     E::::::::::::::::::::E
U::::::U     U::::::U     E::::::::::::::::::::E     E::::::::::::::::::::E
UU:::::U     U:::::UU     EE::::::EEEEEEEEE::::E     EE::::::EEEEEEEEE::::E
 U:::::U     U:::::U        E:::::E       EEEEEE       E:::::E       EEEEEE
 U:::::D     D:::::U        E:::::E                    E:::::E
 U:::::D     D:::::U        E::::::EEEEEEEEEE          E::::::EEEEEEEEEE
 U:::::D     D:::::U        E:::::::::::::::E          E:::::::::::::::E
 U:::::D     D:::::U        E:::::::::::::::E          E:::::::::::::::E
 U:::::D     D:::::U        E::::::EEEEEEEEEE          E::::::EEEEEEEEEE
 U:::::D     D:::::U        E:::::E                    E:::::E
 U::::::U   U::::::U        E:::::E       EEEEEE       E:::::E       EEEEEE
 U:::::::UUU:::::::U      EE::::::EEEEEEEE:::::E     EE::::::EEEEEEEE:::::E
  UU:::::::::::::UU       E::::::::::::::::::::E     E::::::::::::::::::::E
    UU:::::::::UU         E::::::::::::::::::::E     E::::::::::::::::::::E
      UUUUUUUUU           EEEEEEEEEEEEEEEEEEEEEE     EEEEEEEEEEEEEEEEEEEEEE`

// compactArt is used when the full banner does not fit.
const compactArt = `╦ ╦ ╔═╗ ╔═╗
║ ║ ║╣  ║╣
╚═╝ ╚═╝ ╚═╝`

func artLines(art string) []string {
	return strings.Split(art, "\n")
}

func artWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > w {
			w = n
		}
	}
	return w
}
