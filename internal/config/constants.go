package config

// Version is the tool version plans constrain with their requires field.
const Version = "0.3.1"

// PlanFileExt is the canonical plan file extension.
const PlanFileExt = ".yaml"

// PlanFileExtensions are all recognized plan file extensions.
var PlanFileExtensions = []string{PlanFileExt, ".yml"}
