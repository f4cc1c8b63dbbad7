// Command check-model-cached exits 0 when a Hugging Face repository's
// config.json is in the local hub cache and 1 when it is not.
package main

import (
	"os"

	"github.com/xynehq/gpu-scripts/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
