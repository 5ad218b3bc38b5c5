package main

import "github.com/MeKo-Tech/textract-annotator/cmd/textract-annotator/cmd"

func main() {
	cmd.Execute()
}
