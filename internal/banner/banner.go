// Package banner renders the CLI banner.
package banner

import "fmt"

const art = `  _
 | |_ __ _  __ _ ___  ___  __ _
 | __/ _` + "`" + ` |/ _` + "`" + ` / __|/ _ \/ _` + "`" + ` |
 | || (_| | (_| \__ \  __/ (_| |
  \__\__,_|\__, |___/\___|\__, |
           |___/             |_|
`

// Banner returns the banner with the version line appended.
func Banner(version string) string {
	return fmt.Sprintf("%s  CRF Viterbi tagger %s\n\n", art, version)
}
