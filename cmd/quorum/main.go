package main

import (
	"fmt"
	"os"
)

// Exit codes for the CLI's failure modes.
const (
	ExitSuccess  = 0 // Evaluation ran and the content was published
	ExitRejected = 1 // Evaluation ran and the content was rejected or failed
	ExitError    = 2 // Configuration or runtime error
)

// RejectionError indicates the evaluation itself succeeded but the
// content did not clear the publish threshold, or every evaluator failed.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if _, ok := err.(*RejectionError); ok {
			os.Exit(ExitRejected)
		}
		os.Exit(ExitError)
	}
}
