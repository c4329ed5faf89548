package main

import "github.com/go-navi/menush/cmd/menush"

func main() {
	menush.Main()
}
