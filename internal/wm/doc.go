/*
Package wm implements the desktop's window registry and interaction engine.

The Registry is the single source of truth for every open or minimized
window instance. Only the Controller mutates it; views read from it and
subscribe to change events. Drag and resize gestures run through an
Interaction, which keeps the live geometry private until the pointer is
released and then commits it through Controller.UpdatePositionSize.
Maximize state and the geometry to restore to live in a Maximizer owned by
the view and are never persisted.

Example usage:

	reg := wm.NewRegistry(ctx, wm.RegistryOptions{Store: st})
	ctrl := wm.NewController(reg, wm.ControllerOptions{})
	ctrl.Open(wm.OpenRequest{
		InstanceID:  "calc-1",
		AppID:       "calculator",
		Title:       "Calculator",
		InitialSize: wm.Size{Width: 32, Height: 14},
	})
	for _, entry := range reg.ListTaskbar() {
		fmt.Println(entry.Title, entry.IsActive)
	}
*/
package wm
