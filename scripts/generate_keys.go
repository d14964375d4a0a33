//go:build ignore

// generate_keys fills in the secrets the service needs in a dotenv file.
// Existing values are kept unless -force is given.
//
//	go run scripts/generate_keys.go -env .env -api-keys 2
package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func secret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file to update")
	apiKeys := flag.Int("api-keys", 1, "number of admin API keys to generate")
	force := flag.Bool("force", false, "replace secrets that are already set")
	dryRun := flag.Bool("dry-run", false, "print the values instead of writing the file")
	flag.Parse()

	env, err := godotenv.Read(*envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *envFile, err)
		os.Exit(1)
	}
	if env == nil {
		env = map[string]string{}
	}

	keys := make([]string, *apiKeys)
	for i := range keys {
		keys[i] = secret(24)
	}
	generated := map[string]string{
		"JWT_SECRET_KEY":         secret(32),
		"JWT_REFRESH_SECRET_KEY": secret(32),
		"API_KEYS":               strings.Join(keys, ","),
		"SWAGGER_PASS":           secret(12),
	}

	var changed []string
	for k, v := range generated {
		if k == "API_KEYS" && *apiKeys == 0 {
			continue
		}
		if env[k] != "" && !*force {
			continue
		}
		env[k] = v
		changed = append(changed, k)
	}

	if len(changed) == 0 {
		fmt.Println("all secrets already set; use -force to rotate them")
		return
	}

	if *dryRun {
		for _, k := range changed {
			fmt.Printf("%s=%s\n", k, env[k])
		}
		return
	}

	if err := godotenv.Write(env, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *envFile, err)
		os.Exit(1)
	}
	fmt.Printf("updated %s: %s\n", *envFile, strings.Join(changed, ", "))
	fmt.Println("use different secrets per environment and keep the file out of version control")
}
