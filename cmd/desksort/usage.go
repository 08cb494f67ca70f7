package main

// usageBody is shared by every command; only the synopsis differs.
const usageBody = `{{if .HasAvailableSubCommands}}Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}  {{rpad .Name .NamePadding }} {{.Short}}
{{end}}{{end}}{{end}}
{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

const (
	rootUsageTemplate = "Usage:\n  desksort [command] [flags]\n\n" + usageBody

	subcommandUsageTemplate = "Usage:\n  {{.UseLine}}\n" +
		"{{if .HasAvailableSubCommands}}  {{.CommandPath}} [command]\n{{end}}\n" + usageBody

	envUsageTemplate = "Usage:\n  {{.UseLine}}\n  {{.CommandPath}} [command]\n\n" + usageBody
)
