package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/daybook/internal/config"
	"github.com/christopherklint97/daybook/internal/daydata"
	"github.com/christopherklint97/daybook/internal/prefs"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|system]",
	Short:     "Show or set the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(prefs.ThemeLight), string(prefs.ThemeDark), string(prefs.ThemeSystem)},
	RunE:      withEnv(runTheme),
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print the next quote",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runQuote),
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the stored day data",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:     "set SECTION.FIELD VALUE",
	Short:   "Set one config value",
	Example: `  daybook config set backend.user_id 6f1c...`,
	Args:    cobra.ExactArgs(2),
	RunE:    runConfigSet,
}

func init() {
	quoteCmd.Flags().Bool("affirmation", false, "Print the next affirmation instead")
	configCmd.AddCommand(configPathCmd, configSetCmd)
}

func runTheme(cmd *cobra.Command, args []string, e *env) error {
	if len(args) == 0 {
		fmt.Println(e.prefs.Theme())
		return nil
	}
	theme, err := prefs.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := e.prefs.SetTheme(theme); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	fmt.Printf("Theme set to %s\n", theme)
	return nil
}

func runQuote(cmd *cobra.Command, args []string, e *env) error {
	if affirmation, _ := cmd.Flags().GetBool("affirmation"); affirmation {
		fmt.Println(e.styles.Highlight.Render(e.prefs.NextAffirmation()))
		return nil
	}
	q := e.prefs.NextQuote()
	fmt.Println(e.styles.Highlight.Render("“" + q.Text + "”"))
	fmt.Println(e.styles.Dim.Render("  — " + q.Author))
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	out, err := dayDataSchema()
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func dayDataSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(daydata.Mapping{})
	schema.Title = "daybook day data"
	schema.Description = "Value stored under the " + strconv.Quote(daydata.StorageKey) + " key."

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return out, nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := config.WriteDefault(configPath); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	c := exec.Command(editor, configPath)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := config.SetValue(configPath, args[0], configValue(args[1])); err != nil {
		return err
	}
	if _, err := config.LoadFrom(configPath); err != nil {
		return fmt.Errorf("config saved but invalid: %w", err)
	}
	fmt.Printf("Set %s\n", args[0])
	return nil
}

// configValue keeps booleans typed so TOML decoding into bool fields works.
func configValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
