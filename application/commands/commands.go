// Package commands binds the application services to named commands.
package commands

import (
	"context"

	"github.com/wheelkit/wheelhost/application/files"
	"github.com/wheelkit/wheelhost/application/greeting"
	"github.com/wheelkit/wheelhost/application/wheel"
	"github.com/wheelkit/wheelhost/domain/entities"
	"github.com/wheelkit/wheelhost/hostfuncs"
)

// Command names.
const (
	Greet           = "greet"
	ReadFileBase64  = "read_file_base64"
	ReadFileDataURL = "read_file_data_url"
	WheelGetConfig  = "wheel_get_config"
	WheelSaveConfig = "wheel_save_config"
	WheelView       = "wheel_view"
	WheelToggleItem = "wheel_toggle_item"
	WheelSpin       = "wheel_spin"
)

// Empty is the request of commands that take no arguments.
type Empty struct{}

// AppBundle returns the greeting and file commands.
func AppBundle(fileSvc *files.Service) hostfuncs.HostFuncBundle {
	return hostfuncs.StaticBundle{
		Greet: hostfuncs.NewCommand(func(_ context.Context, req entities.GreetRequest) (string, error) {
			return greeting.Greet(req.Name), nil
		}),
		ReadFileBase64: hostfuncs.NewCommand(func(_ context.Context, req entities.ReadFileRequest) (string, error) {
			return fileSvc.ReadBase64(req.Path)
		}),
		ReadFileDataURL: hostfuncs.NewCommand(func(_ context.Context, req entities.ReadFileRequest) (string, error) {
			return fileSvc.ReadDataURL(req.Path)
		}),
	}
}

// WheelBundle returns the spin wheel commands.
func WheelBundle(svc *wheel.Service) hostfuncs.HostFuncBundle {
	return hostfuncs.StaticBundle{
		WheelGetConfig: hostfuncs.NewCommand(func(ctx context.Context, _ Empty) (entities.WheelConfig, error) {
			return svc.Config(ctx)
		}),
		WheelSaveConfig: hostfuncs.NewCommand(svc.SaveConfig),
		WheelView: hostfuncs.NewCommand(func(ctx context.Context, _ Empty) (entities.WheelView, error) {
			return svc.View(ctx)
		}),
		WheelToggleItem: hostfuncs.NewCommand(func(ctx context.Context, req wheel.ToggleRequest) (entities.WheelView, error) {
			return svc.Toggle(ctx, req.Item)
		}),
		WheelSpin: hostfuncs.NewCommand(svc.Spin),
	}
}
