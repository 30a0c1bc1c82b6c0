package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/notevault/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5001")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, hours
//	-o int      OTP validity, minutes
//	-r string   Redis address for the attempt limiter
//	-m string   SMTP address (host:port)
//	-f string   mail From address
//	-x string   allowed CORS origin
//
// Arguments are first filtered with flagx.FilterArgs so flags owned by other
// packages (such as -c/-config) do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-o", "-r", "-m", "-f", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidity.Hours()), "session token validity (in hours)")
	otpValidity := fs.Int("o", int(config.OTPValidity.Minutes()), "otp validity (in minutes)")

	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for attempt limiting")
	fs.StringVar(&config.SMTPAddr, "m", config.SMTPAddr, "SMTP address (host:port)")
	fs.StringVar(&config.MailFrom, "f", config.MailFrom, "mail From address")
	fs.StringVar(&config.CORSOrigin, "x", config.CORSOrigin, "allowed CORS origin")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only flags that were actually passed overwrite the durations; a
	// blanket rewrite would truncate sub-unit values set by env or JSON
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidity = time.Duration(*tokenValidity) * time.Hour
		case "o":
			config.OTPValidity = time.Duration(*otpValidity) * time.Minute
		}
	})
}
