// Package config defines the wmkeysd configuration file.
//
// A configuration has a logging section and a keybindings section. The
// keybindings section sets the special keys and lists bindings; each
// binding names a builtin action or defines a custom one that runs a
// command or a Lua script.
//
//	[keybindings]
//	overlay_key = "Super_L"
//
//	[[keybindings.binding]]
//	name = "show-desktop"
//	accelerators = ["<Super>d"]
//
//	[[keybindings.binding]]
//	name = "terminal"
//	accelerators = ["<Super>Return"]
//	command = ["xterm"]
//	flags = ["ignore-autorepeat"]
package config
