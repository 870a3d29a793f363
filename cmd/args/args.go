package args

type args struct {
	Manifest string
	Output   string

	Debug bool
}

var Args = &args{}
