// Package config loads narrator's settings.
//
// # File Location
//
// The default path is ~/.config/narrator/config.toml; --config overrides it.
// A missing file is not an error: every key has a default.
//
// # Keys
//
//	base_url        = "http://127.0.0.1:8000"   # captioning service root
//	request_timeout = "0s"                      # 0 leaves uploads unbounded
//	locale          = "en-US"                   # speech locale
//	log_file        = "~/.local/state/narrator/narrator.log"
//	log_level       = "info"
//
//	[camera]
//	command      = "ffmpeg"
//	front_device = ""      # platform default when empty
//	back_device  = ""
//	facing       = "back"
//
//	[speech]
//	enabled = true
//	command = ""           # espeak-ng on Linux, say on macOS
//	voice   = ""
//
// Blank strings fall back to the defaults and paths starting with ~ are
// expanded against the home directory.
//
// # Environment
//
// NARRATOR_BASE_URL and NARRATOR_LOG_LEVEL override the file. The CLI loads a
// .env file from the working directory before reading them.
package config
