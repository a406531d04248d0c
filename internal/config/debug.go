package config

import "os"

func IsDebug() bool {
	return os.Getenv("VNDBOT_DEBUG") == "1"
}
