package config_test

import (
	"fmt"

	"github.com/ajitpratap0/typedbuf/pkg/config"
)

// ExampleNewDefaultConfig shows the defaults every section starts from.
func ExampleNewDefaultConfig() {
	cfg := config.NewDefaultConfig()

	fmt.Printf("Target: %s\n", cfg.Codec.Target)
	fmt.Printf("Narrowing: %s\n", cfg.Codec.Narrowing)
	fmt.Printf("Bins: %d\n", cfg.Histogram.Bins)
	fmt.Printf("Compression: %s\n", cfg.Payload.Compression)

	// Output:
	// Target: float64
	// Narrowing: wrap
	// Bins: 10
	// Compression: zstd
}

// ExampleConfig_Validate shows a rejected setting.
func ExampleConfig_Validate() {
	cfg := config.NewDefaultConfig()
	cfg.Histogram.Bins = -1

	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
	}

	// Output:
	// config: histogram.bins must be positive
}
