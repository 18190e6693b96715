package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure OCR, LLM, extraction and output settings.

Use subcommands to change a single key or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by key. Run without arguments to list the keys.

Examples:
  ocrsc settings set ocr.language eng
  ocrsc settings set output.table_format xlsx
  ocrsc settings set segmentation.processors segmenter,xmlsafe`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsOCRCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Configure the OCR backend",
	Long: `Configure the OCR backend used when a document has no usable text layer.

Available backends:
  local      - Tesseract on this machine (no setup beyond tesseract itself)
  mistral    - Mistral OCR API (requires API key)
  documentai - Google Document AI (requires a processor and credentials)`,
	RunE: runSettingsOCR,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for field enrichment and summaries.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsOCRCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(header("Current Settings"))
	cmd.Println()

	cmd.Println("[OCR]")
	cmd.Printf("  Backend: %s\n", settings.OCR.Backend.Description())
	language := settings.OCR.Language
	if name, ok := domain.LanguageName(language); ok {
		language = fmt.Sprintf("%s (%s)", language, name)
	}
	cmd.Printf("  Language: %s\n", language)
	cmd.Printf("  Min text length: %d\n", settings.OCR.MinTextLength)
	switch settings.OCR.Backend {
	case domain.OCRBackendMistral:
		cmd.Printf("  Base URL: %s\n", settings.OCR.BaseURL)
		cmd.Printf("  API Key: %s\n", displayAPIKey(settings.OCR.APIKey))
		cmd.Printf("  Rate limit: %g/s\n", settings.OCR.RateLimit)
	case domain.OCRBackendDocumentAI:
		d := settings.OCR.DocumentAI
		cmd.Printf("  Processor: projects/%s/locations/%s/processors/%s\n", d.ProjectID, d.Location, d.ProcessorID)
		if d.CredentialsFile != "" {
			cmd.Printf("  Credentials: %s\n", d.CredentialsFile)
		}
		cmd.Printf("  Rate limit: %g/s\n", settings.OCR.RateLimit)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.OCR.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayAPIKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  AI enrichment: %s\n", yesNo(settings.Extraction.Enrich))
	if settings.Extraction.PatternsFile != "" {
		cmd.Printf("  Patterns file: %s\n", settings.Extraction.PatternsFile)
	} else {
		cmd.Println("  Patterns file: (built-in)")
	}
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Directory: %s\n", settings.Output.Directory)
	cmd.Printf("  Dataset: %s\n", settings.Output.DatasetPath())
	cmd.Printf("  Table: %s\n", settings.Output.TablePath())
	cmd.Printf("  Markdown: %s\n", yesNo(settings.Output.Markdown))
	cmd.Printf("  HTML: %s\n", yesNo(settings.Output.HTML))
	cmd.Printf("  Summary: %s\n", yesNo(settings.Output.Summary))
	cmd.Println()

	cmd.Println("[Segmentation]")
	cmd.Printf("  Processors: %s\n", strings.Join(settings.Segmentation.Processors, ", "))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'ocrsc settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if len(args) == 0 {
		cmd.Println("Available keys:")
		for _, key := range services.SettingKeys() {
			cmd.Printf("  %s\n", key)
		}
		return nil
	}
	if len(args) != 2 {
		return errors.New("usage: ocrsc settings set <key> <value>")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	value := args[1]
	if strings.HasSuffix(args[0], "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", args[0], value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println(header("ocrsc Settings Wizard"))
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure OCR")
	cmd.Println("---------------------")
	if err := configureOCRBackend(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: OCR Language")
	cmd.Println("--------------------")
	if err := configureLanguage(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 3: AI Enrichment and Summaries")
	cmd.Println("-----------------------------------")
	cmd.Print("Enable AI enrichment and summaries? [y/N]: ")
	useAI := parseYes(readLine(reader))
	if useAI {
		if err := configureLLMProvider(cmd, reader); err != nil {
			return err
		}
	} else {
		cmd.Println("Skipped. Pattern extraction still works without an LLM.")
		cmd.Println()
	}
	if err := settingsService.Set("extraction.enrich", strconv.FormatBool(useAI)); err != nil {
		return fmt.Errorf("failed to set enrichment: %w", err)
	}
	if err := settingsService.Set("output.summary", strconv.FormatBool(useAI)); err != nil {
		return fmt.Errorf("failed to set summaries: %w", err)
	}

	cmd.Println("Step 4: Output")
	cmd.Println("--------------")
	if err := configureOutput(cmd, reader); err != nil {
		return err
	}

	cmd.Println(header("Configuration Complete!"))
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsOCR(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureOCRBackend(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureLLMProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func configureOCRBackend(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select OCR Backend")
	backends := domain.AllOCRBackends()
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(backends), 1)
	selected := backends[idx-1]

	if err := settingsService.SetOCRBackend(selected); err != nil {
		return fmt.Errorf("failed to set OCR backend: %w", err)
	}

	switch selected {
	case domain.OCRBackendMistral:
		cmd.Printf("Enter Mistral API key (empty uses $%s): ", services.EnvMistralAPIKey)
		key := readPassword(reader)
		cmd.Println()
		if key != "" {
			if err := settingsService.Set("ocr.api_key", key); err != nil {
				return fmt.Errorf("failed to set API key: %w", err)
			}
		}
	case domain.OCRBackendDocumentAI:
		prompts := []struct {
			key, label string
		}{
			{"ocr.documentai.project_id", "Google Cloud project ID"},
			{"ocr.documentai.location", "Processor location [us]"},
			{"ocr.documentai.processor_id", "Processor ID"},
			{"ocr.documentai.credentials_file", "Credentials file (empty uses $" + services.EnvGoogleCredentials + ")"},
		}
		for _, p := range prompts {
			cmd.Printf("%s: ", p.label)
			value := readLine(reader)
			if value == "" {
				continue
			}
			if err := settingsService.Set(p.key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", p.key, err)
			}
		}
	}

	cmd.Printf("OCR backend set to: %s\n\n", selected.Description())
	return nil
}

func configureLanguage(cmd *cobra.Command, reader *bufio.Reader) error {
	languages := domain.SupportedLanguages()
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sortLanguages(codes)
	for i, code := range codes {
		cmd.Printf("  %d. %s (%s)\n", i+1, languages[code], code)
	}

	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(codes), 1)

	if err := settingsService.Set("ocr.language", codes[idx-1]); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	cmd.Printf("OCR language set to: %s\n\n", languages[codes[idx-1]])
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func configureOutput(cmd *cobra.Command, reader *bufio.Reader) error {
	current := outputSettings
	if settings, err := settingsService.Get(); err == nil {
		current = settings.Output
	}

	cmd.Printf("Output directory [%s]: ", current.Directory)
	if dir := readLine(reader); dir != "" {
		if err := settingsService.Set("output.directory", dir); err != nil {
			return fmt.Errorf("failed to set output directory: %w", err)
		}
	}

	cmd.Println("Select table format")
	formats := domain.AllTableFormats()
	def := 1
	for i, f := range formats {
		cmd.Printf("  %d. %s\n", i+1, f)
		if f == current.TableFormat {
			def = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", def)
	idx := parseChoice(readLine(reader), len(formats), def)
	if err := settingsService.Set("output.table_format", formats[idx-1].String()); err != nil {
		return fmt.Errorf("failed to set table format: %w", err)
	}

	cmd.Print("Write Markdown copies? [Y/n]: ")
	markdown := !parseNo(readLine(reader))
	cmd.Print("Write HTML copies? [y/N]: ")
	html := parseYes(readLine(reader))
	if err := settingsService.Set("output.markdown", strconv.FormatBool(markdown)); err != nil {
		return fmt.Errorf("failed to set markdown output: %w", err)
	}
	if err := settingsService.Set("output.html", strconv.FormatBool(html)); err != nil {
		return fmt.Errorf("failed to set HTML output: %w", err)
	}
	cmd.Println()
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseYes(input string) bool {
	switch strings.ToLower(input) {
	case "y", "yes", "s", "sim":
		return true
	}
	return false
}

func parseNo(input string) bool {
	switch strings.ToLower(input) {
	case "n", "no", "nao", "não":
		return true
	}
	return false
}

// readPassword reads without echo on a terminal and falls back to reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func displayAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// sortLanguages puts the default language first and the rest by code.
func sortLanguages(codes []string) {
	sort.Slice(codes, func(i, j int) bool {
		if codes[i] == domain.DefaultOCRLanguage || codes[j] == domain.DefaultOCRLanguage {
			return codes[i] == domain.DefaultOCRLanguage
		}
		return codes[i] < codes[j]
	})
}
