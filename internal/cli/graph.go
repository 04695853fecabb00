package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tracegrid/pkg/pipeline"
)

// graphCommand creates the graph command, which draws every traceback path
// as a chain of cells with Graphviz.
func (c *CLI) graphCommand() *cobra.Command {
	opts := showOpts{traceback: -1}

	cmd := &cobra.Command{
		Use:   "graph [computation.json]",
		Short: "Render the traceback paths as a graph",
		Long: `Render every traceback path of a computation bundle as a chain of cells.
Paths that share cells share nodes; moves between matrices are dashed.

Formats: dot (Graphviz source), graph.svg, graph.png.`,
		Example: `  tracegrid graph result.json
  tracegrid graph result.json -f dot,graph.png -o paths`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeComputationFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), args[0], opts, true)
		},
	}

	c.addRenderFlags(cmd, &opts, pipeline.FormatGraphSVG)

	return cmd
}
