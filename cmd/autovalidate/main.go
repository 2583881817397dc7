package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/caarlos0/env/v11"
	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	autovalidate "github.com/goliatone/go-autovalidate"
	"github.com/goliatone/go-autovalidate/internal/logging"
	"github.com/goliatone/go-autovalidate/internal/prompt"
	"github.com/goliatone/go-autovalidate/pkg/config"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/htmldom"
	"github.com/goliatone/go-autovalidate/pkg/messages"
	"github.com/goliatone/go-autovalidate/pkg/model"
	"github.com/goliatone/go-autovalidate/pkg/submit"
)

type settings struct {
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	Adapter   string `env:"ADAPTER" envDefault:"foundation5"`
	Locale    string `env:"LOCALE" envDefault:"en"`
}

type report struct {
	Form      string          `json:"form"`
	Submitted bool            `json:"submitted"`
	Decision  submit.Decision `json:"decision"`
	Controls  []controlReport `json:"controls"`
	Errors    []string        `json:"errors,omitempty"`
}

type controlReport struct {
	Name   string            `json:"name"`
	Value  string            `json:"value"`
	Valid  bool              `json:"valid"`
	Errors []model.ErrorKind `json:"errors,omitempty"`
}

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	var cfg settings
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: config.DefaultEnvPrefix}); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	source := flag.String("source", "", "HTML document to validate (stdin if empty)")
	formKey := flag.String("form", "", "name or id of the form (first form if empty)")
	valuesPath := flag.String("values", "", "JSON or YAML file mapping control names to values")
	optionsPath := flag.String("options", "", "JSON or YAML file with default form options")
	adapterKey := flag.String("adapter", cfg.Adapter, "style adapter (foundation5, bootstrap3)")
	locale := flag.String("locale", cfg.Locale, "message locale")
	force := flag.Bool("force", false, "forward the submit regardless of validity")
	interactive := flag.Bool("interactive", false, "prompt for control values")
	reportJSON := flag.Bool("report", false, "print a JSON report instead of the annotated HTML")
	output := flag.String("output", "", "output file (stdout if empty)")
	serverErrorsPath := flag.String("server-errors", "", "JSON or YAML error payload applied after a forwarded submit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logging.New(logging.Format(cfg.LogFormat), logging.ParseLevel(cfg.LogLevel), os.Stderr)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	opts := []autovalidate.Option{
		autovalidate.WithLogger(logger),
		autovalidate.WithActiveAdapter(*adapterKey),
		autovalidate.WithFallbackLocale(*locale),
	}
	if defaults, ok, err := loadDefaults(*optionsPath); err != nil {
		log.Fatalf("Failed to load options: %v", err)
	} else if ok {
		opts = append(opts, autovalidate.WithDefaultOptions(defaults))
	}

	validator, err := autovalidate.New(opts...)
	if err != nil {
		log.Fatalf("Failed to build validator: %v", err)
	}

	doc, err := loadDocument(*source, validator, logger)
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}
	form, ok := doc.Form(*formKey)
	if !ok {
		log.Fatalf("Form %q not found", *formKey)
	}

	if *valuesPath != "" {
		if err := applyValues(doc, form, *valuesPath); err != nil {
			log.Fatalf("Failed to apply values: %v", err)
		}
	}

	submitted := false
	handler := func(context.Context, host.Event) { submitted = true }
	binding := validator.Gate().Bind(form, form, handler, *force || submit.ForceFor(form))
	binding.Attach()
	defer doc.Destroy(ctx, form)

	ctx = messages.WithLocale(ctx, *locale)
	driver := prompt.NewSurveyDriver()
	for {
		if *interactive {
			if err := prompt.Fill(ctx, driver, doc, form); err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					return 130
				}
				log.Fatalf("Failed to collect values: %v", err)
			}
		}
		if err := doc.Submit(ctx, form); err != nil {
			log.Fatalf("Failed to submit: %v", err)
		}
		validator.Wait()

		if submitted || !*interactive {
			break
		}
		retry, err := driver.Confirm(ctx, prompt.ConfirmConfig{Message: "The form has errors. Edit again?", Default: true})
		if err != nil || !retry {
			break
		}
	}

	var formErrors []string
	if submitted && *serverErrorsPath != "" {
		formErrors, err = applyServerErrors(ctx, validator, doc, form, *serverErrorsPath)
		if err != nil {
			log.Fatalf("Failed to apply server errors: %v", err)
		}
		validator.Wait()
		submitted = len(formErrors) == 0 && !formInvalid(doc, form)
	}

	var out []byte
	if *reportJSON {
		rep := buildReport(doc, form, submitted, binding.LastDecision())
		rep.Errors = formErrors
		out, err = json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
	} else {
		out = []byte(doc.String())
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Result written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}

	if !submitted {
		return 1
	}
	return 0
}

func loadDefaults(path string) (model.FormValidationOptions, bool, error) {
	if strings.TrimSpace(path) != "" {
		opts, err := config.LoadFile(path)
		return opts, err == nil, err
	}
	if hasPrefixedEnv() {
		opts, err := config.FromEnv(config.DefaultEnvPrefix)
		return opts, err == nil, err
	}
	return model.FormValidationOptions{}, false, nil
}

func hasPrefixedEnv() bool {
	for _, name := range []string{
		"DISABLED",
		"VALIDATE_NON_VISIBLE_CONTROLS",
		"ERRORS_ALLOWED_ON_SUBMIT",
		"DISPLAY_ERRORS_AFTER_SUBMIT",
		"REMOVE_EXTERNAL_VALIDATION_ERRORS_ON_SUBMIT",
	} {
		if _, ok := os.LookupEnv(config.DefaultEnvPrefix + name); ok {
			return true
		}
	}
	return false
}

func loadDocument(path string, validator *autovalidate.Validator, logger *slog.Logger) (*htmldom.Document, error) {
	var r io.Reader = os.Stdin
	if strings.TrimSpace(path) != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return htmldom.Parse(r, htmldom.WithDefaults(validator.Defaults()), htmldom.WithLogger(logger))
}

func applyValues(doc *htmldom.Document, form *htmldom.Element, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		values = map[string]string{}
		if yamlErr := yaml.Unmarshal(data, &values); yamlErr != nil {
			return fmt.Errorf("%s: invalid JSON or YAML: %w", path, yamlErr)
		}
	}
	for name, value := range values {
		el, ok := doc.Control(form, name)
		if !ok {
			return fmt.Errorf("%s: control %q not found", path, name)
		}
		if err := doc.SetValue(el, value); err != nil {
			return err
		}
	}
	return nil
}

// applyServerErrors flags the controls named in the payload and renders
// the server messages verbatim. Form-level messages are returned.
func applyServerErrors(ctx context.Context, validator *autovalidate.Validator, doc *htmldom.Document, form *htmldom.Element, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	payload := map[string][]string{}
	if err := json.Unmarshal(data, &payload); err != nil {
		payload = map[string][]string{}
		if yamlErr := yaml.Unmarshal(data, &payload); yamlErr != nil {
			return nil, fmt.Errorf("%s: invalid JSON or YAML: %w", path, yamlErr)
		}
	}

	mapping, err := doc.ApplyErrors(form, payload)
	if err != nil {
		return nil, err
	}
	for name, msgs := range mapping.Fields {
		if el, ok := doc.Control(form, name); ok {
			validator.SetElementValidationError(ctx, el, "", strings.Join(msgs, " "))
		}
	}
	return mapping.Form, nil
}

func formInvalid(doc *htmldom.Document, form *htmldom.Element) bool {
	for _, el := range doc.Controls(form) {
		if control := el.Control(); control != nil && control.Invalid() {
			return true
		}
	}
	return false
}

func buildReport(doc *htmldom.Document, form *htmldom.Element, submitted bool, decision submit.Decision) report {
	out := report{Form: form.Name(), Submitted: submitted, Decision: decision}
	for _, el := range doc.Controls(form) {
		control := el.Control()
		entry := controlReport{Name: el.Name(), Value: el.Value(), Valid: true}
		if control != nil {
			entry.Errors = control.ErrorFlags().Active()
			entry.Valid = !control.Invalid()
		}
		out.Controls = append(out.Controls, entry)
	}
	return out
}
