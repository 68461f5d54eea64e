//go:build wasip1

package guest

//go:wasmimport wheel_host greet
func hostGreet(packed uint64) uint64

//go:wasmimport wheel_host read_file_base64
func hostReadFileBase64(packed uint64) uint64

//go:wasmimport wheel_host read_file_data_url
func hostReadFileDataURL(packed uint64) uint64

//go:wasmimport wheel_host wheel_get_config
func hostWheelGetConfig(packed uint64) uint64

//go:wasmimport wheel_host wheel_save_config
func hostWheelSaveConfig(packed uint64) uint64

//go:wasmimport wheel_host wheel_view
func hostWheelView(packed uint64) uint64

//go:wasmimport wheel_host wheel_toggle_item
func hostWheelToggleItem(packed uint64) uint64

//go:wasmimport wheel_host wheel_spin
func hostWheelSpin(packed uint64) uint64

//go:wasmimport wheel_host log_message
func hostLogMessage(packed uint64)

// invoke dispatches to the imported host function for command.
func invoke(command string, packed uint64) (uint64, bool) {
	switch command {
	case "greet":
		return hostGreet(packed), true
	case "read_file_base64":
		return hostReadFileBase64(packed), true
	case "read_file_data_url":
		return hostReadFileDataURL(packed), true
	case "wheel_get_config":
		return hostWheelGetConfig(packed), true
	case "wheel_save_config":
		return hostWheelSaveConfig(packed), true
	case "wheel_view":
		return hostWheelView(packed), true
	case "wheel_toggle_item":
		return hostWheelToggleItem(packed), true
	case "wheel_spin":
		return hostWheelSpin(packed), true
	}
	return 0, false
}
