package irc

var sigilModes = map[byte]string{
	'~': "owner",
	'&': "admin",
	'@': "op",
	'%': "halfop",
	'+': "voice",
}

// ParseNameEntry splits a NAMES reply entry into its leading role
// sigils (in sigil order) and the bare nick. The first character that
// is not a known sigil ends the scan and starts the nick. Modes is
// never nil.
func ParseNameEntry(entry string) (nick string, modes []string) {
	modes = []string{}
	i := 0
	for i < len(entry) {
		mode, ok := sigilModes[entry[i]]
		if !ok {
			break
		}
		modes = append(modes, mode)
		i++
	}
	return entry[i:], modes
}
