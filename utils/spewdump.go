package utils

import (
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
)

// DumpOutput receives Dump output.
var DumpOutput io.Writer = os.Stdout

var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	DisableMethods:          true,
	SortKeys:                true,
}

func Dump(a ...interface{}) {
	spewConfig.Fdump(DumpOutput, a...)
}

func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}
