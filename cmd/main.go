// Command ai-hub-gateway serves the grading and quiz-generation API.
package main

import (
	"fmt"
	"os"
)

var (
	// Version is set at build time via ldflags
	Version = "v0.1.0"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			os.Exit(runServeCommand(args[1:]))
		case "version", "--version", "-v":
			fmt.Printf("ai-hub-gateway %s\n", Version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}
	// Bare flags go to serve.
	os.Exit(runServeCommand(args))
}

func printHelp() {
	fmt.Println("AI Hub Gateway")
	fmt.Println()
	fmt.Println("Usage: ai-hub-gateway [serve] [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -c, --config PATH   YAML config file (or GATEWAY_CONFIG)")
	fmt.Println("  -p, --port PORT     Listen port (overrides config and PORT)")
	fmt.Println("  -d, --debug         Debug logging")
	fmt.Println("  -h, --help          Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GATEWAY_API_KEYS        Comma-separated client credentials")
	fmt.Println("  AZURE_OPENAI_ENDPOINT   Azure OpenAI resource URL")
	fmt.Println("  AZURE_DEPLOYMENT        Chat deployment name")
	fmt.Println("  AZURE_OPENAI_API_KEY    Azure OpenAI key")
	fmt.Println("  SAFE_PROMPTS            Soften every prompt up front")
	fmt.Println("  DEBUG_AZURE_ERRORS      Include upstream failure details in error bodies")
}
