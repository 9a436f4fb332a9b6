package main

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/teris-io/cli"
	"its-hmny.dev/nand2tetris/pkg/asm"
	"its-hmny.dev/nand2tetris/pkg/vm"
)

var Description = strings.ReplaceAll(`
The VM Translator translates programs (composed of multiple modules/files) written in 
the VM language into Hack assembly code that can be further elaborated. The VM language
is a higher-level (bytecode'like) language tailored for use with the Hack computer arch.
`, "\n", " ")

var VmTranslator = cli.New(Description).
	// 'AsOptional()' allows to have more than one input .vm file
	WithArg(cli.NewArg("inputs", "The bytecode (.vm) file to be compiled").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("output", "The compiled binary output (.asm)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("bootstrap", "Includes bootstrap code in the final .asm file").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 || options["output"] == "" {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	output, err := os.Create(options["output"])
	if err != nil {
		fmt.Printf("ERROR: Unable to open output file: %s\n", err)
		return -1
	}
	defer output.Close()

	// Shared across every translation unit: the emitter's return-label counter is
	// keyed by caller function name, which is already unique program-wide, and a
	// single Emitter keeps that bookkeeping in one place rather than per file.
	emitter := asm.NewEmitter()
	var blocks []asm.CodeBlock

	// When the user opts in to include the 'bootstrap' code as the first instructions of our
	// translated program, this code does the following things:
	// - Sets the Stack Pointer to its base location at memory location 256
	// - Jump to the Sys.init function (defined by one of the translation units below)
	if _, enabled := options["bootstrap"]; enabled {
		blocks = append(blocks, emitter.Bootstrap())
	}

	// For every file provided by the user we parse, lift to semantic form and emit, in order.
	for _, input := range args {
		content, err := os.ReadFile(input)
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			return -1
		}

		// Instantiate a parser for the Vm program
		parser := vm.NewParser(bytes.NewReader(content))
		// Parses the input file content and extract an AST (as a 'vm.Module') from it.
		module, err := parser.Parse()
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'parsing' pass: %s\n", err)
			return -1
		}

		// Removes root directory and file extension to use as the module/file name,
		// needed for the 'static' segment's per-file symbol scoping.
		fileName := strings.TrimSuffix(path.Base(input), path.Ext(input))

		// Rewrites the raw push/pop command stream into its addressing-resolved semantic form.
		lifter := vm.NewLifter(fileName)
		semantic, err := lifter.Lift(module)
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'lifting' pass: %s\n", err)
			return -1
		}

		// Emits the Hack assembly code blocks (calling convention, arithmetic, ...) for this module.
		moduleBlocks, err := emitter.EmitModule(semantic)
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'emission' pass: %s\n", err)
			return -1
		}
		blocks = append(blocks, moduleBlocks...)
	}

	var statements []asm.Statement
	for _, block := range blocks {
		statements = append(statements, block.Statements...)
	}

	// Now, instantiates a code generator for the Asm (compiled) program
	codegen := asm.NewCodeGenerator(statements)
	// Iterates over each instruction and spits out the relative textual representation.
	compiled, err := codegen.Generate()
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'codegen' pass: %s\n", err)
		return -1
	}

	for _, comp := range compiled {
		line := fmt.Sprintf("%s\n", comp)
		output.Write([]byte(line))
	}

	return 0
}

func main() { os.Exit(VmTranslator.Run(os.Args, os.Stdout)) }
