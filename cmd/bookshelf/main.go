package main

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

func main() {
	Execute()
}
