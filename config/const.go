package config

import "strings"

// AppVersion is the version of the application. Overridden at build time.
var AppVersion = "1.2.0"

// AppName is the name of the application.
const AppName = "Viewfinder"

// OrgName is the publisher name used in settings paths.
const OrgName = "DigitalVision"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// SettingsFileName is the name of the JSON settings file.
const SettingsFileName = "settings.json"
