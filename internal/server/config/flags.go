package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/suggestbox/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-u string   moderator username
//	-p string   moderator password hash (argon2id, PHC string)
//	-s string   session signing secret, hex (empty = random per process)
//	-t int      session validity, minutes
//	-w string   static pages directory (empty disables static serving)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-p", "-s", "-t", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "moderator username")
	fs.StringVar(&config.AdminPasswordHash, "p", config.AdminPasswordHash, "moderator password hash")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session signing secret (hex)")
	fs.StringVar(&config.StaticDir, "w", config.StaticDir, "static pages directory")

	sessionValidityDuration := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidityDuration) * time.Minute
}
