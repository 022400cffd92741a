package main

import "github.com/mldjordje/bubanjskioganj/cmd/server/cmd"

func main() {
	cmd.Execute()
}
