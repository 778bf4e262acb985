// Completion: 100% - Configuration and global verbosity flags complete
package main

import (
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// Global flags for controlling output verbosity, set once in main and read
// everywhere else - the teacher's VerboseMode/QuietMode pattern (main.go),
// kept instead of threading a logger through every pass.
var VerboseMode bool
var QuietMode bool

// debugLevelEnvVar is read once at startup to seed an additional diagnostic
// level beyond -v, for environments that drive etharden from a build
// system and can't pass extra flags easily.
const debugLevelEnvVar = "ETHARDEN_DEBUG_LEVEL"

// DebugLevel is 0 by default; ETHARDEN_DEBUG_LEVEL=1 or higher enables the
// same output as -v without touching argv. Levels above 1 add no further
// output.
var DebugLevel int

// LoadConfig reads process environment for the settings that aren't worth
// a dedicated flag, and folds -v/-q into VerboseMode/QuietMode/DebugLevel.
// Called once from main after flag.Parse.
func LoadConfig(verbose, quiet bool) {
	DebugLevel = env.Int(debugLevelEnvVar, 0)
	VerboseMode = verbose || DebugLevel >= 1
	QuietMode = quiet && !VerboseMode
}

// debugf prints to stderr when VerboseMode is set, matching the teacher's
// inline `if VerboseMode { fmt.Fprintf(os.Stderr, ...) }` calls but
// collapsed into one helper so passes don't repeat the guard everywhere.
func debugf(format string, args ...interface{}) {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// statusf prints to stderr unless QuietMode suppresses normal progress
// output.
func statusf(format string, args ...interface{}) {
	if !QuietMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
