package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/envconf/config"
	"github.com/eugenenazirov/envconf/internal/logging"
)

// castNames lists the casts selectable via --cast.
var castNames = []string{"string", "bool", "int", "int64", "uint", "float", "duration", "url", "strings", "ints"}

// request carries the parsed CLI inputs for a single resolution.
type request struct {
	key         string
	file        string
	prefix      string
	castName    string
	defaultRaw  string
	warnMissing bool
}

func main() {
	app := kingpin.New("envconf", "Resolve a configuration key through environment variables, an optional values file, and a default")
	filePath := app.Flag("file", "Path to a KEY=VALUE or flat YAML values file").String()
	prefix := app.Flag("prefix", "Prefix prepended to every lookup key").String()
	castName := app.Flag("cast", "Cast applied to the resolved value").Default("string").Enum(castNames...)
	defaultRaw := app.Flag("default", "Raw default used when the key is absent from every source (empty means no default)").String()
	warnMissing := app.Flag("warn-missing", "Warn when the values file does not exist").Bool()
	key := app.Arg("key", "Configuration key to resolve").Required().String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(zapcore.WarnLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	output, err := resolve(request{
		key:         *key,
		file:        *filePath,
		prefix:      *prefix,
		castName:    *castName,
		defaultRaw:  *defaultRaw,
		warnMissing: *warnMissing,
	}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// resolve builds a resolver from the request, resolves the raw value with
// the default applied, and casts it. The cast applies to defaults too, so
// "--cast int --default 8080" yields a validated integer.
func resolve(req request, logger *zap.Logger) (string, error) {
	opts := []config.Option{config.WithPrefix(req.prefix)}
	if req.file != "" {
		opts = append(opts, config.WithFile(req.file))
	}
	if req.warnMissing {
		opts = append(opts, config.WithWarnMissing(logger))
	}

	cfg, err := config.New(opts...)
	if err != nil {
		return "", err
	}

	var raw string
	if req.defaultRaw != "" {
		raw = cfg.GetDefault(req.key, req.defaultRaw)
	} else {
		raw, err = cfg.Get(req.key)
		if err != nil {
			return "", err
		}
	}

	return render(req.prefix+req.key, raw, req.castName)
}

// render applies the named cast to the raw value and formats the result
// for stdout.
func render(key, raw, castName string) (string, error) {
	switch castName {
	case "string":
		return config.Apply(key, raw, config.String)
	case "bool":
		value, err := config.Apply(key, raw, config.Bool)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(value), nil
	case "int":
		value, err := config.Apply(key, raw, config.Int)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(value), nil
	case "int64":
		value, err := config.Apply(key, raw, config.Int64)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(value, 10), nil
	case "uint":
		value, err := config.Apply(key, raw, config.Uint)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(value), 10), nil
	case "float":
		value, err := config.Apply(key, raw, config.Float64)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(value, 'g', -1, 64), nil
	case "duration":
		value, err := config.Apply(key, raw, config.Duration)
		if err != nil {
			return "", err
		}
		return value.String(), nil
	case "url":
		value, err := config.Apply(key, raw, config.URL)
		if err != nil {
			return "", err
		}
		return value.String(), nil
	case "strings":
		value, err := config.Apply(key, raw, config.Strings)
		if err != nil {
			return "", err
		}
		return strings.Join(value, ","), nil
	case "ints":
		value, err := config.Apply(key, raw, config.Ints)
		if err != nil {
			return "", err
		}
		items := make([]string, len(value))
		for i, item := range value {
			items[i] = strconv.Itoa(item)
		}
		return strings.Join(items, ","), nil
	}
	return "", fmt.Errorf("unknown cast %q", castName)
}
