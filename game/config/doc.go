// Package config holds the runtime settings of the robot server.
//
// Settings are filled from command line flags, which fall back to
// environment variables (a .env file is loaded first when present):
//   - HOST, PORT, DEBUG
//   - SESSION_TTL, CLEANUP_INTERVAL (Go durations such as "24h")
//   - NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN
//
// Usage:
//
//	settings := config.Default()
//	settings.Port = 9090
//	if err := settings.Validate(); err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(settings.Addr())
package config
