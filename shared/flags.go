package shared

import (
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
)

// FlagSpec describes a command line flag whose default is read from an environment variable.
type FlagSpec struct {
	// Name is the flag name.
	Name string
	// Env is the environment variable overriding the default.
	Env string
	// Value is a pointer to the destination, a string or an int.
	Value interface{}
	// Default is used when the environment variable is unset.
	Default string
	// Usage is the flag help text.
	Usage string
}

// FlagRegistry registers command line flags and tracks them to avoid reregistration.
type FlagRegistry struct {
	registered map[string]bool
}

// Register registers the described flag on the command line flag set.
// The environment variable named by the spec takes precedence over its default.
func (r *FlagRegistry) Register(spec FlagSpec) error {
	if r.registered == nil {
		r.registered = make(map[string]bool)
	}

	if r.registered[spec.Name] {
		return nil
	}

	r.registered[spec.Name] = true

	defValue := spec.Default
	if v, ok := os.LookupEnv(spec.Env); ok {
		defValue = v
	}

	val := reflect.ValueOf(spec.Value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", spec.Name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(spec.Value.(*string), spec.Name, defValue, spec.Usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			var err error
			def, err = strconv.Atoi(defValue)
			if err != nil {
				return fmt.Errorf("%s: parsing %s: %w", spec.Name, spec.Env, err)
			}
		}
		flag.IntVar(spec.Value.(*int), spec.Name, def, spec.Usage)
	default:
		return fmt.Errorf("%s: unsupported type", spec.Name)
	}

	return nil
}

// Load loads the optional .env file at the provided path, then registers and parses the
// provided flags using the loaded environment variables as defaults.
func (r *FlagRegistry) Load(path string, specs []FlagSpec) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	for _, spec := range specs {
		err = r.Register(spec)
		if err != nil {
			return err
		}
	}

	flag.Parse()

	return nil
}
