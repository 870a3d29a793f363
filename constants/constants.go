package constants

import "os"

const (
	AppName         = "cmdparse"
	DefaultManifest = "cmdparse.yaml"
)

var Version = "dev"

var inTerm = func() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}()

func InTerm() bool {
	return inTerm
}
