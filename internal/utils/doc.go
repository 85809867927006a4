// Package utils exposes helpers shared by every qol-assist command.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// QOLASSIST_ environment overrides through Viper. LoggerFactory builds the
// zap loggers used for diagnostics and console rendering.
package utils
