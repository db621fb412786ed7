package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoot creates a bare root command so generated scripts don't
// depend on what init() registered.
func newTestRoot() *cobra.Command {
	return &cobra.Command{
		Use:   "lui",
		Short: "Printer control panel with a local lock",
	}
}

func TestCompletionBashGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRoot().GenBashCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "# bash completion for lui")
	assert.Contains(t, output, "__lui_debug")
	assert.Contains(t, output, "complete -o default -F __start_lui lui")
}

func TestCompletionZshGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRoot().GenZshCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "#compdef lui")
	assert.Contains(t, output, "_lui()")
}

func TestCompletionFishGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRoot().GenFishCompletion(&buf, true))

	output := buf.String()
	assert.Contains(t, output, "fish completion for lui")
	assert.Contains(t, output, "complete -c lui")
}

func TestCompletionPowershellGeneration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestRoot().GenPowerShellCompletion(&buf))

	output := buf.String()
	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionIncludesBuiltinCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, rootCmd.GenBashCompletion(&buf))

	output := buf.String()
	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "__start_lui")
	assert.Contains(t, output, "_lui_root_command")

	// Commands with local flags get their own functions.
	assert.Contains(t, output, "_lui_simulate()")
	assert.Contains(t, output, "_lui_shutdown()")
	assert.Contains(t, output, "_lui_completion()")
}

func TestCompletionCommandWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	defer completionCmd.SetOut(nil)

	require.NoError(t, completionCmd.RunE(completionCmd, []string{"zsh"}))
	assert.Contains(t, buf.String(), "#compdef lui")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}

func TestAutolockValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"on", "off"}, autolockCmd.ValidArgs)
	assert.Error(t, autolockCmd.Args(autolockCmd, []string{"maybe"}))
	assert.NoError(t, autolockCmd.Args(autolockCmd, []string{"on"}))
}
