// cmd/tools/registry-updater/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"accreditation-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "generate":
		return runGenerate(args, out)
	case "check":
		return runCheck(args, out)
	case "add":
		return runAdd(args, out)
	case "update":
		return runUpdate(args, out)
	case "validate":
		return runValidate(args, out)
	case "help", "-h", "--help":
		help(out)
		return nil
	default:
		help(out)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runGenerate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	version := fs.String("version", "1.0.0", "Registry version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg := generateRegistry(*version, time.Now())
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("generated registry is invalid: %w", err)
	}
	if err := registry.SaveRegistry(reg, *path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Generated %d activities in %s\n", len(reg.Activities), *path)
	return nil
}

// runCheck fails when the registry file no longer matches the schemas the workers
// validate against. Meant for CI, before a process model is deployed.
func runCheck(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	changes := registry.Diff(current, generateRegistry(current.Version, time.Now()))
	if len(changes) == 0 {
		fmt.Fprintf(out, "%s is up to date.\n", *path)
		return nil
	}

	for _, change := range changes {
		fmt.Fprintf(out, "  %s\n", change)
	}
	return fmt.Errorf("%d difference(s) found, run 'registry-updater generate' to refresh %s", len(changes), *path)
}

func runAdd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., export-comparison)")
	displayName := fs.String("displayName", "", "Display Name (e.g., Export Comparison)")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (e.g., comparison)")
	taskType := fs.String("taskType", "", "Camunda Task Type (e.g., export-comparison)")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return errors.New("id, displayName, description, category and taskType are required for add")
	}

	activity := registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              "10s",
		Workflows:            []string{},
		Tags:                 []string{},
	}
	if err := addActivity(*path, activity, time.Now()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, timeout, retries, ...)")
	value := fs.String("value", "", "New value for the field")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return errors.New("id, field and value are required for update")
	}

	if err := updateActivity(*path, *id, *field, *value, time.Now()); err != nil {
		return err
	}

	fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	fmt.Fprintf(out, "Registry validation passed, found %d activities.\n", len(reg.Activities))
	return nil
}

func addActivity(path string, activity registry.Activity, now time.Time) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	if _, exists := reg.Find(activity.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", activity.ID)
	}

	reg.Activities = append(reg.Activities, activity)
	reg.LastUpdated = now.UTC().Format(time.RFC3339)
	return registry.SaveRegistry(reg, path)
}

func updateActivity(path, id, field, value string, now time.Time) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "displayName":
		activity.DisplayName = value
	case "description":
		activity.Description = value
	case "category":
		activity.Category = value
	case "taskType":
		activity.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries", "maxJobsActive":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", field, err)
		}
		if field == "retries" {
			activity.Retries = n
		} else {
			activity.MaxJobsActive = n
		}
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = now.UTC().Format(time.RFC3339)
	return registry.SaveRegistry(reg, path)
}

func help(out io.Writer) {
	fmt.Fprintln(out, `
Usage: registry-updater <command> [flags]

Commands:
  generate Write the registry from the worker schemas
  check    Report differences between the registry file and the worker schemas
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater generate -version 1.1.0
  registry-updater check -path configs/activity-registry.json
  registry-updater add -id export-comparison -displayName "Export Comparison" -description "Exports a comparison as a report" -category comparison -taskType export-comparison
  registry-updater update -id compare-institutions -field status -value verified

Use 'registry-updater <command> -h' for more information about a command.`)
}
