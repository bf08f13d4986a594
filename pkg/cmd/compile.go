// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/blendsdk/blend65/pkg/compiler"
	"github.com/blendsdk/blend65/pkg/diag"
	"github.com/blendsdk/blend65/pkg/sema/analysis"
	"github.com/blendsdk/blend65/pkg/util/source"
	"github.com/spf13/cobra"
)

// compileCmd compiles one or more source files (in topological order) down
// to IL, printing diagnostics along the way.
var compileCmd = &cobra.Command{
	Use:   "compile [flags] file...",
	Short: "Compile one or more blend65 source files.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := configFromFlags(cmd)
		dumpIL, _ := cmd.Flags().GetBool("il")
		//
		srcfiles, err := source.ReadFiles(args...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		//
		var pfiles []*source.File
		for i := range srcfiles {
			pfiles = append(pfiles, &srcfiles[i])
		}
		//
		results := compiler.CompileFiles(pfiles, config)
		failed := reportResults(pfiles, results)
		//
		if dumpIL && !failed {
			for _, result := range results {
				if result.IL != nil {
					fmt.Println(result.IL)
				}
			}
		}
		//
		if failed {
			os.Exit(1)
		}
	},
}

// checkCmd runs the front end only, reporting diagnostics without producing
// IL output.
var checkCmd = &cobra.Command{
	Use:   "check [flags] file...",
	Short: "Check one or more blend65 source files without generating code.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := configFromFlags(cmd)
		//
		srcfiles, err := source.ReadFiles(args...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		//
		var pfiles []*source.File
		for i := range srcfiles {
			pfiles = append(pfiles, &srcfiles[i])
		}
		//
		if reportResults(pfiles, compiler.CompileFiles(pfiles, config)) {
			os.Exit(1)
		}
	},
}

// Translate command-line flags into a compiler configuration.
func configFromFlags(cmd *cobra.Command) compiler.Config {
	config := compiler.DefaultConfig()
	//
	if noAnalysis, _ := cmd.Flags().GetBool("no-analysis"); noAnalysis {
		config.Analysis = analysis.FrontEndConfig()
	}
	//
	if maxErrors, _ := cmd.Flags().GetUint("max-errors"); maxErrors > 0 {
		config.Analysis.MaxErrors = maxErrors
	}
	//
	if noWarn, _ := cmd.Flags().GetBool("no-warnings"); noWarn {
		config.Analysis.ReportWarnings = false
	}
	//
	return config
}

// Render each module's diagnostics against its source file, reporting
// whether any errors arose.
func reportResults(srcfiles []*source.File, results []*compiler.Result) bool {
	renderer := diag.NewRenderer(os.Stderr)
	failed := false
	//
	for i, result := range results {
		if i < len(srcfiles) {
			renderer.RenderAll(srcfiles[i], result.Diagnostics)
		}
		//
		failed = failed || result.Failed()
	}
	//
	return failed
}

func init() {
	for _, cmd := range []*cobra.Command{compileCmd, checkCmd} {
		cmd.Flags().Bool("no-analysis", false, "skip the advanced analysis tiers")
		cmd.Flags().Uint("max-errors", 0, "stop reporting after this many errors")
		cmd.Flags().Bool("no-warnings", false, "suppress warnings")
	}
	//
	compileCmd.Flags().Bool("il", false, "dump the IL module to stdout")
	//
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
}
