package util

import (
	"flag"
	"fmt"
	"log"
)

func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

// Assert quits with a non-zero exit code when err is non-nil. It is only
// for fatal conditions: bad arguments, unreadable inputs, a failed
// generation run.
func Assert(err error, v ...interface{}) {
	if err != nil {
		if len(v) == 0 {
			Fatalf("ERROR: %s.", err)
		} else {
			format := v[0].(string)
			v = v[1:]
			Fatalf("%s: %s.", fmt.Sprintf(format, v...), err)
		}
	}
}

func AssertNArg(n int) {
	if flag.NArg() != n {
		flag.Usage()
	}
}
