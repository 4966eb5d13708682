// internal/shell/commands.go
package shell

// ShellTriggers run an OS command.
var ShellTriggers = []string{".shell", ".system"}

// NewDefaultRegistry returns the shell's dot-commands in match order.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(
		&MetaCommand{Triggers: []string{".exit", ".quit"}, Description: "exit the REPL", Run: exitCmd},
		&MetaCommand{Triggers: []string{".cd"}, Usage: "[dir]", Description: "change directory to <dir>", Run: cdCmd},
		&MetaCommand{Triggers: []string{".prompt"}, Usage: "<str>", Description: "change prompt to <str>", Run: promptCmd},
		&MetaCommand{Triggers: []string{".read"}, Usage: "<file>", Description: "read SQL from <file>", Run: readCmd},
		&MetaCommand{Triggers: ShellTriggers, Usage: "<cmd>", Description: "run an OS command <cmd>", Run: shellCmd},
		&MetaCommand{Triggers: []string{".dump"}, Usage: "[path]", Description: "stringify database into SQL commands", Run: dumpCmd},
		&MetaCommand{Triggers: []string{".output"}, Usage: "[path|stdout]", Description: "redirect output of commands to <path>", Run: outputCmd},
		&MetaCommand{Triggers: []string{".show"}, Usage: "[prefix]", Description: "display info about the REPL", Run: showCmd},
		&MetaCommand{Triggers: []string{".tables"}, Usage: "[substr]", Description: "show all tables in the database", Run: tablesCmd},
		&MetaCommand{Triggers: []string{".open"}, Usage: "<database>", Description: "close this database and open <database>", Run: openCmd},
		&MetaCommand{Triggers: []string{".mode"}, Usage: "<style>", Description: "change the table style to <style>", Run: modeCmd},
		&MetaCommand{Triggers: []string{".log"}, Usage: "[path|stdout]", Description: "toggle verbose logging, optionally into <path>", Run: logCmd},
		&MetaCommand{Triggers: []string{".print"}, Usage: "<string>", Description: "display given <string> in the terminal", Run: printCmd},
		&MetaCommand{Triggers: []string{".backup"}, Usage: "<path>", Description: "copy the database to <path> page by page", Run: backupCmd},
	)

	// .help lists the registry it belongs to.
	help := &MetaCommand{Triggers: []string{".help"}, Usage: "[substr]", Description: "display all available commands"}
	help.Run = helpCmd(r)
	r.commands = append(r.commands[:1], append([]*MetaCommand{help}, r.commands[1:]...)...)
	return r
}
