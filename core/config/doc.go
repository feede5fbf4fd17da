// Package config provides configuration management for data-france.
//
// It utilizes Viper for loading configuration from environment variables, a .env file
// and an optional datafrance.yaml file. Defaults are declared next to each field with
// the `default` struct tag.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Build: directories, census date, overrides file and artifact compression
//   - Events: change-log modification codes per event kind
//   - Storage: S3/MinIO credentials and bucket the artifacts are published to
//   - Database: downstream database the artifact contracts are checked against
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Build.OutputDir)
package config
