// Package automation runs scripted YAML scenarios of headless arena runs.
package automation
