// Package config loads provider settings, gate settings and relay settings
// from a YAML file and the environment.
//
// Environment values in the file are expanded with os.ExpandEnv, so secrets
// can stay out of it:
//
//	providers:
//	  openai:
//	    api_key: ${OPENAI_API_KEY}
//	    timeout: 30s
//	middleware:
//	  log_level: standard
//	  deny: ["openai.images.*"]
//	relay:
//	  addr: ":8080"
//
// [LoadDotEnv] loads .env files first when the process is started by hand.
package config
