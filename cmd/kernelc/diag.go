// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	pathColor    = color.New(color.Bold)
)

func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel.Sprint("error:"), err)
}

func printWarning(w io.Writer, path, message string) {
	fmt.Fprintf(w, "%s %s: %s\n", warningLabel.Sprint("warning:"), pathColor.Sprint(path), message)
}
