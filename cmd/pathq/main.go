// Command pathq runs document path operations from the shell: resolve,
// set, delete, patch, and compare over JSON or YAML documents. It is a
// debugging and scripting surface over the engine, not part of the
// database server.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/quarrydb/quarry/eval"
	"github.com/quarrydb/quarry/idiom"
	"github.com/quarrydb/quarry/val"
)

var (
	docFile  string
	yamlIO   bool
	maxDepth int
)

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}
	root := &cobra.Command{
		Use:           "pathq",
		Short:         "document path operations over JSON/YAML input",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&docFile, "file", "f", "-", "document file, - for stdin")
	root.PersistentFlags().BoolVarP(&yamlIO, "yaml", "y", false, "read and write YAML instead of JSON")
	root.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "path recursion ceiling, 0 for the default")

	root.AddCommand(getCmd(), setCmd(), delCmd(), patchCmd(), compareCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("pathq: %v", err))
		os.Exit(1)
	}
}

func options() *val.Options {
	return &val.Options{MaxDepth: maxDepth, Eval: eval.New()}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "resolve a path and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocAndPath(args[0])
			if err != nil {
				return err
			}
			res, err := doc.Get(cmd.Context(), options(), path)
			if err != nil {
				return err
			}
			return emit(res)
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <value>",
		Short: "write a value at a path and print the document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocAndPath(args[0])
			if err != nil {
				return err
			}
			nv, err := parseValue(args[1])
			if err != nil {
				return err
			}
			if err := doc.Set(cmd.Context(), options(), path, nv); err != nil {
				return err
			}
			return emit(doc)
		},
	}
}

func delCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <path>",
		Short: "delete a path and print the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := loadDocAndPath(args[0])
			if err != nil {
				return err
			}
			if err := doc.Del(cmd.Context(), options(), path); err != nil {
				return err
			}
			return emit(doc)
		},
	}
}

func patchCmd() *cobra.Command {
	var patchFile string
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "apply a patch batch and print the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDoc(docFile)
			if err != nil {
				return err
			}
			data, err := readInput(patchFile)
			if err != nil {
				return err
			}
			if err := doc.PatchJSON(cmd.Context(), options(), data); err != nil {
				// The document may be partially patched; print it so
				// the caller sees what was applied before the failure.
				_ = emit(doc)
				return err
			}
			return emit(doc)
		},
	}
	cmd.Flags().StringVarP(&patchFile, "patch", "p", "", "patch file (JSON array of ops)")
	_ = cmd.MarkFlagRequired("patch")
	return cmd
}

func compareCmd() *cobra.Command {
	var numeric, collated bool
	cmd := &cobra.Command{
		Use:   "compare <path> <file-a> <file-b>",
		Short: "order two documents by the value at a path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := idiom.Parse(args[0])
			if err != nil {
				return err
			}
			a, err := loadDoc(args[1])
			if err != nil {
				return err
			}
			b, err := loadDoc(args[2])
			if err != nil {
				return err
			}
			ord, ok := val.CompareAt(a, b, path, numeric, collated)
			if !ok {
				return fmt.Errorf("values are not comparable at %q", args[0])
			}
			fmt.Println(ord)
			return nil
		},
	}
	cmd.Flags().BoolVar(&numeric, "numeric", false, "digit-aware string ordering")
	cmd.Flags().BoolVar(&collated, "collate", false, "locale-collated string ordering")
	return cmd
}

func loadDocAndPath(pathArg string) (*val.Value, idiom.Idiom, error) {
	doc, err := loadDoc(docFile)
	if err != nil {
		return nil, nil, err
	}
	path, err := idiom.Parse(pathArg)
	if err != nil {
		return nil, nil, err
	}
	return doc, path, nil
}

func loadDoc(name string) (*val.Value, error) {
	data, err := readInput(name)
	if err != nil {
		return nil, err
	}
	if yamlIO {
		return val.FromYAML(data)
	}
	return val.FromJSON(data)
}

func emit(v *val.Value) error {
	var out []byte
	var err error
	if yamlIO {
		out, err = v.YAML()
	} else {
		out, err = v.JSON()
		out = append(out, '\n')
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func parseValue(arg string) (*val.Value, error) {
	if yamlIO {
		return val.FromYAML([]byte(arg))
	}
	v, err := val.FromJSON([]byte(arg))
	if err != nil && !strings.HasPrefix(arg, "{") && !strings.HasPrefix(arg, "[") {
		// Bare words read as strings for convenience.
		return val.ParseStrand(arg)
	}
	return v, err
}
