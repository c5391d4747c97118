package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vuec/internal/buildpipeline"
	"vuec/internal/driver"
	"vuec/internal/dump"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.vue>",
	Short: "Print the output of a compile stage",
	Long: `Run the pipeline up to --stage and print its artefact: tokens after scan,
the element tree after parse, the IR after convert or transform, the code after emit`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("stage", "transform", "stage to stop after (scan|parse|convert|transform|emit)")
	dumpCmd.Flags().String("format", "yaml", "encoding (yaml|json|msgpack)")
}

func runDump(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	stageStr, err := cmd.Flags().GetString("stage")
	if err != nil {
		return fmt.Errorf("failed to get stage flag: %w", err)
	}
	stage, ok := buildpipeline.ParseStage(stageStr)
	if !ok {
		return fmt.Errorf("unknown stage %q (expected: scan|parse|convert|transform|emit)", stageStr)
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := dump.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pipeline, err := cfg.Options()
	if err != nil {
		return err
	}

	fs, res := driver.CompileFile(cmd.Context(), args[0], driver.Options{
		Pipeline:       pipeline,
		MaxDiagnostics: maxDiagnostics(g, cfg),
		Until:          stage,
	})
	printDiagnostics(cmd.ErrOrStderr(), res.Result.Bag, fs, g)
	if g.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Result.Timings)
	}

	out := cmd.OutOrStdout()
	r := res.Result
	switch stage {
	case buildpipeline.StageScan:
		err = dump.Encode(out, format, dump.Tokens(r.Tokens))
	case buildpipeline.StageParse:
		err = dump.Encode(out, format, dump.AST(r.AST))
	case buildpipeline.StageConvert, buildpipeline.StageTransform:
		if r.IR == nil {
			return res.Err
		}
		err = dump.Encode(out, format, dump.IR(r.IR, pipeline.Codegen.CustomHelpers))
	default:
		if res.Err != nil {
			return res.Err
		}
		_, err = fmt.Fprint(out, r.Code)
	}
	if err != nil {
		return err
	}
	// артефакт печатаем даже с ошибками, но код выхода их отражает
	return res.Err
}
