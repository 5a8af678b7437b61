package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Reads the structured zap log file and pretty-prints it for a terminal.
// Usage: viewlogs [-file logs/app.log] [-level ERROR] [-module AUDIT]

type logLine struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Module    string                 `json:"module"`
	Details   map[string]interface{} `json:"details"`
}

func main() {
	file := flag.String("file", "logs/app.log", "log file to read")
	level := flag.String("level", "", "filter by level (INFO, WARN, ERROR)")
	module := flag.String("module", "", "filter by module (e.g. AUDIT, Hub)")
	flag.Parse()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Error: cannot open %s: %v", *file, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	shown := 0
	for scanner.Scan() {
		var entry logLine
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}

		if *level != "" && !strings.EqualFold(entry.Level, *level) {
			continue
		}
		if *module != "" && !strings.EqualFold(entry.Module, *module) {
			continue
		}

		printEntry(entry)
		shown++
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Error: failed reading %s: %v", *file, err)
	}

	color.Cyan("\n%d entries shown", shown)
}

func printEntry(entry logLine) {
	levelColor := color.New(color.FgWhite)
	switch entry.Level {
	case "ERROR":
		levelColor = color.New(color.FgRed, color.Bold)
	case "WARN":
		levelColor = color.New(color.FgYellow)
	case "INFO":
		levelColor = color.New(color.FgGreen)
	}

	fmt.Printf("%s %s %s %s",
		color.HiBlackString(entry.Timestamp),
		levelColor.Sprintf("%-5s", entry.Level),
		color.CyanString("[%s]", entry.Module),
		entry.Message,
	)

	if len(entry.Details) > 0 {
		detailsJson, _ := json.Marshal(entry.Details)
		fmt.Printf(" %s", color.HiBlackString(string(detailsJson)))
	}
	fmt.Println()
}
