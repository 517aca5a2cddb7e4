package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"montage/comfy"
)

var generateCmd = &cobra.Command{
	Use:   "generate <workflow.json>",
	Short: "Run a ComfyUI workflow and download its output",
	Long: `Queue an API-format ComfyUI workflow, stream its execution progress, and
download the rendered result. Prompt text, seed, and an input image are
injected into the workflow's matching nodes.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

var (
	genPrompt string
	genSeed   int64
	genImage  string
	genOutput string
)

func init() {
	generateCmd.Flags().StringVarP(&genPrompt, "prompt", "p", "", "Prompt text to inject")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Sampler seed (0 picks randomly server-side)")
	generateCmd.Flags().StringVar(&genImage, "image", "", "Input image to upload and inject")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "generated.mp4", "Output file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := comfy.NewClient(cfg.ComfyURL, log)
	if !client.Ping(ctx) {
		return fmt.Errorf("ComfyUI is not reachable at %s", cfg.ComfyURL)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	workflow, err := comfy.ParseWorkflow(data)
	if err != nil {
		return err
	}

	values := map[string]any{}
	if genPrompt != "" {
		values["PROMPT"] = genPrompt
	}
	if genSeed != 0 {
		values["SEED"] = genSeed
	}
	if genImage != "" {
		name, err := client.Upload(ctx, genImage)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", genImage, err)
		}
		values["IMAGE"] = name
	}

	mappings := comfy.DefaultMappings()
	comfy.GuessMappings(workflow, mappings)
	if n := comfy.Inject(workflow, mappings, values); n == 0 && len(values) > 0 {
		fmt.Println("Warning: no workflow inputs matched the provided values")
	}

	promptID, err := client.Submit(ctx, workflow)
	if err != nil {
		return err
	}
	fmt.Printf("Queued prompt %s\n", promptID)

	err = client.Wait(ctx, promptID, func(p comfy.Progress) {
		if p.Node != "" {
			fmt.Printf("\rExecuting node %-24s", p.Node)
		} else if p.Fraction > 0 {
			fmt.Printf("\rGenerating... %3.0f%%          ", p.Fraction*100)
		}
	})
	fmt.Println()
	if err != nil {
		return err
	}

	outputs, err := client.Outputs(ctx, promptID)
	if err != nil {
		return err
	}
	if err := client.Download(ctx, outputs[0], genOutput); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", genOutput)
	return nil
}
