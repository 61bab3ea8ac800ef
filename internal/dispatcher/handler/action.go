package handler

import (
	"fmt"

	"github.com/dshills/wmkeys/internal/input/keymap"
)

// Action identifies what a handler does. Builtin actions have fixed values;
// externally grabbed accelerators are assigned values above ActionLast.
type Action int

const (
	ActionNone Action = iota

	ActionWorkspace1
	ActionWorkspace2
	ActionWorkspace3
	ActionWorkspace4
	ActionWorkspace5
	ActionWorkspace6
	ActionWorkspace7
	ActionWorkspace8
	ActionWorkspace9
	ActionWorkspace10
	ActionWorkspace11
	ActionWorkspace12
	ActionWorkspaceLeft
	ActionWorkspaceRight
	ActionWorkspaceUp
	ActionWorkspaceDown

	ActionSwitchGroup
	ActionSwitchGroupBackward
	ActionSwitchWindows
	ActionSwitchWindowsBackward
	ActionSwitchPanels
	ActionSwitchPanelsBackward
	ActionCycleGroup
	ActionCycleGroupBackward
	ActionCycleWindows
	ActionCycleWindowsBackward
	ActionCyclePanels
	ActionCyclePanelsBackward

	ActionShowDesktop
	ActionPanelMainMenu
	ActionPanelRunDialog
	ActionToggleRecording

	ActionActivateWindowMenu
	ActionToggleFullscreen
	ActionToggleMaximized
	ActionToggleAbove
	ActionMaximize
	ActionUnmaximize
	ActionToggleShaded
	ActionMinimize
	ActionClose
	ActionBeginMove
	ActionBeginResize
	ActionToggleOnAllWorkspaces
	ActionMoveToWorkspace1
	ActionMoveToWorkspace2
	ActionMoveToWorkspace3
	ActionMoveToWorkspace4
	ActionMoveToWorkspace5
	ActionMoveToWorkspace6
	ActionMoveToWorkspace7
	ActionMoveToWorkspace8
	ActionMoveToWorkspace9
	ActionMoveToWorkspace10
	ActionMoveToWorkspace11
	ActionMoveToWorkspace12
	ActionMoveToWorkspaceLeft
	ActionMoveToWorkspaceRight
	ActionMoveToWorkspaceUp
	ActionMoveToWorkspaceDown
	ActionRaiseOrLower
	ActionRaise
	ActionLower
	ActionMaximizeVertically
	ActionMaximizeHorizontally
	ActionMoveToCenter

	ActionOverlayKey
	ActionLocatePointerKey
	ActionISONextGroup

	// ActionLast is the largest builtin action.
	ActionLast = ActionISONextGroup
)

// Names of the pseudo-bindings driven by the special key machines.
const (
	NameOverlayKey       = "overlay-key"
	NameLocatePointerKey = "locate-pointer-key"
	NameISONextGroup     = "iso-next-group"
)

// Builtin describes one builtin action.
type Builtin struct {
	Name   string
	Action Action
	Flags  keymap.Flags
}

var builtins = buildBuiltins()

func buildBuiltins() []Builtin {
	const (
		perWindow = keymap.FlagPerWindow
		reverses  = keymap.FlagReverses
		reversed  = keymap.FlagReverses | keymap.FlagIsReversed
		pseudo    = keymap.FlagNoAutoGrab
	)

	var list []Builtin
	add := func(name string, action Action, flags keymap.Flags) {
		list = append(list, Builtin{Name: name, Action: action, Flags: flags | keymap.FlagBuiltin})
	}

	for i := 0; i < 12; i++ {
		add(fmt.Sprintf("switch-to-workspace-%d", i+1), ActionWorkspace1+Action(i), 0)
	}
	add("switch-to-workspace-left", ActionWorkspaceLeft, 0)
	add("switch-to-workspace-right", ActionWorkspaceRight, 0)
	add("switch-to-workspace-up", ActionWorkspaceUp, 0)
	add("switch-to-workspace-down", ActionWorkspaceDown, 0)

	add("switch-group", ActionSwitchGroup, reverses)
	add("switch-group-backward", ActionSwitchGroupBackward, reversed)
	add("switch-windows", ActionSwitchWindows, reverses)
	add("switch-windows-backward", ActionSwitchWindowsBackward, reversed)
	add("switch-panels", ActionSwitchPanels, reverses)
	add("switch-panels-backward", ActionSwitchPanelsBackward, reversed)
	add("cycle-group", ActionCycleGroup, reverses)
	add("cycle-group-backward", ActionCycleGroupBackward, reversed)
	add("cycle-windows", ActionCycleWindows, reverses)
	add("cycle-windows-backward", ActionCycleWindowsBackward, reversed)
	add("cycle-panels", ActionCyclePanels, reverses)
	add("cycle-panels-backward", ActionCyclePanelsBackward, reversed)

	add("show-desktop", ActionShowDesktop, 0)
	add("panel-main-menu", ActionPanelMainMenu, 0)
	add("panel-run-dialog", ActionPanelRunDialog, 0)
	add("toggle-recording", ActionToggleRecording, 0)

	add("activate-window-menu", ActionActivateWindowMenu, perWindow)
	add("toggle-fullscreen", ActionToggleFullscreen, perWindow)
	add("toggle-maximized", ActionToggleMaximized, perWindow)
	add("toggle-above", ActionToggleAbove, perWindow)
	add("maximize", ActionMaximize, perWindow)
	add("unmaximize", ActionUnmaximize, perWindow)
	add("toggle-shaded", ActionToggleShaded, perWindow)
	add("minimize", ActionMinimize, perWindow)
	add("close", ActionClose, perWindow)
	add("begin-move", ActionBeginMove, perWindow)
	add("begin-resize", ActionBeginResize, perWindow)
	add("toggle-on-all-workspaces", ActionToggleOnAllWorkspaces, perWindow)
	for i := 0; i < 12; i++ {
		add(fmt.Sprintf("move-to-workspace-%d", i+1), ActionMoveToWorkspace1+Action(i), perWindow)
	}
	add("move-to-workspace-left", ActionMoveToWorkspaceLeft, perWindow)
	add("move-to-workspace-right", ActionMoveToWorkspaceRight, perWindow)
	add("move-to-workspace-up", ActionMoveToWorkspaceUp, perWindow)
	add("move-to-workspace-down", ActionMoveToWorkspaceDown, perWindow)
	add("raise-or-lower", ActionRaiseOrLower, perWindow)
	add("raise", ActionRaise, perWindow)
	add("lower", ActionLower, perWindow)
	add("maximize-vertically", ActionMaximizeVertically, perWindow)
	add("maximize-horizontally", ActionMaximizeHorizontally, perWindow)
	add("move-to-center", ActionMoveToCenter, perWindow)

	add(NameOverlayKey, ActionOverlayKey, pseudo)
	add(NameLocatePointerKey, ActionLocatePointerKey, pseudo)
	add(NameISONextGroup, ActionISONextGroup, pseudo)
	return list
}

// Builtins returns the builtin action table in declaration order.
func Builtins() []Builtin {
	return append([]Builtin(nil), builtins...)
}

// LookupBuiltin returns the builtin named name.
func LookupBuiltin(name string) (Builtin, bool) {
	for _, b := range builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}

// String returns the builtin name, "external-grab-N" for external actions,
// or "none".
func (a Action) String() string {
	switch {
	case a == ActionNone:
		return "none"
	case a > ActionLast:
		return fmt.Sprintf("external-grab-%d", a-ActionLast)
	}
	for _, b := range builtins {
		if b.Action == a {
			return b.Name
		}
	}
	return fmt.Sprintf("action-%d", int(a))
}

// IsExternal reports whether a was assigned to an external grab.
func (a Action) IsExternal() bool {
	return a > ActionLast
}
