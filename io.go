package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func printPrompt(w io.Writer) {
	fmt.Fprint(w, "db > ")
}

func readInput(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
