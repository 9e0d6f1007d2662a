package main

import "puzzleboard/internal/server"

func main() {
	server.StartGinServer()
}
