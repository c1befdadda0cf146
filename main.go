package main

import "github.com/drgolem/wav2mp3/cmd"

func main() {
	cmd.Execute()
}
