package commands

const (
	categoryGeneral = "General"
	categoryPrefix  = "Prefix"
	categoryCustom  = "Custom Commands"
	categoryAliases = "Aliases"
	categoryRoles   = "Roles"
	categoryWelcome = "Welcome"
	categoryModlog  = "Moderation"
)

// Builtins returns every built-in command in help order.
func Builtins() []*Command {
	var cmds []*Command
	cmds = append(cmds, generalCommands()...)
	cmds = append(cmds, prefixCommands()...)
	cmds = append(cmds, customCommandAdmin()...)
	cmds = append(cmds, aliasCommands()...)
	cmds = append(cmds, roleCommands()...)
	cmds = append(cmds, welcomeCommands()...)
	cmds = append(cmds, modlogCommands()...)
	return cmds
}

func NewBuiltinRegistry() *Registry {
	return NewRegistry(Builtins()...)
}
