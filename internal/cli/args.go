package cli

import "regexp"

var listFlags = map[string]bool{
	"-d": true, "--date": true,
	"-t": true, "--timestamp": true,
}

var columnList = regexp.MustCompile(`^-?\d+(,-?\d+)*$`)

// normalizeArgs lets -d and -t take several space separated values, as in
// "-d 1 3 -t 2", by repeating the flag before each value. A list flag with no
// values is dropped, leaving its list empty.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if !listFlags[a] {
			out = append(out, a)
			continue
		}

		j := i + 1
		for j < len(args) && columnList.MatchString(args[j]) {
			out = append(out, a, args[j])
			j++
		}
		i = j - 1
	}
	return out
}
