package main

import "github.com/AndiHofi/quarble-sub000/cmd"

func main() {
	cmd.Execute()
}
