package vkhelper

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"
)

// MaxPhysicalDevices bounds physical device enumeration
const MaxPhysicalDevices = 8

var (
	initOnce sync.Once
	initErr  error
)

// InitializeForComputeOnly loads the Vulkan loader without any windowing
// support. It is safe to call more than once.
func InitializeForComputeOnly() error {
	initOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			initErr = errors.Wrap(err, "failed to load vulkan")
			return
		}
		if err := vk.Init(); err != nil {
			initErr = errors.Wrap(err, "failed to initialize vulkan")
		}
	})
	return initErr
}

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v *Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App is used to provide information about this specific application to Vulkan
type App struct {
	// Name the name of the application
	Name string
	// Engine the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	// EnabledLayers the enabled layers
	EnabledLayers []string

	// EnabledExtensions the enabled extensions
	EnabledExtensions []string
}

// SupportedLayers returns a list of supported layers for use by Vulkan.
// Vulkan must have been initialized first.
func SupportedLayers() ([]string, error) {
	var count uint32
	err := check(vk.EnumerateInstanceLayerProperties(&count, nil), "failed to enumerate layers")
	if err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	err = check(vk.EnumerateInstanceLayerProperties(&count, props), "failed to enumerate layers")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range props[:count] {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// SupportedExtensions returns a list of supported instance extensions.
// Vulkan must have been initialized first.
func SupportedExtensions() ([]string, error) {
	var count uint32
	err := check(vk.EnumerateInstanceExtensionProperties("", &count, nil), "failed to enumerate extensions")
	if err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	err = check(vk.EnumerateInstanceExtensionProperties("", &count, props), "failed to enumerate extensions")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, ext := range props[:count] {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// EnableDebugging turns on the Khronos validation layer and the debug report
// extension its messages are delivered through.
func (a *App) EnableDebugging() error {
	if _, err := a.EnableLayer("VK_LAYER_KHRONOS_validation"); err != nil {
		return err
	}
	a.EnableExtension("VK_EXT_debug_report")
	return nil
}

// Enable a specific layer. A layer that is already enabled is not added again.
func (a *App) EnableLayer(layer string) (*App, error) {
	if slices.Contains(a.EnabledLayers, layer) {
		return a, nil
	}
	layers, err := SupportedLayers()
	if err != nil {
		return a, errors.Wrap(err, "error getting supported layers")
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return a, nil
		}
	}
	return a, errors.Errorf("validation layer '%s' not found", layer)
}

// Enable an extension for use by the application
func (a *App) EnableExtension(extension string) *App {
	if !slices.Contains(a.EnabledExtensions, extension) {
		a.EnabledExtensions = append(a.EnabledExtensions, extension)
	}
	return a
}

// Clone returns a copy of the application description that can be changed
// without affecting a.
func (a *App) Clone() *App {
	c := *a
	c.EnabledLayers = append([]string(nil), a.EnabledLayers...)
	c.EnabledExtensions = append([]string(nil), a.EnabledExtensions...)
	return &c
}

// VKApplicationInfo creates a structure representing this application in a Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan instance
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}
	err := check(vk.CreateInstance(&createInfo, nil, &instance.VKInstance), "failed to create instance")
	if err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance.VKInstance); err != nil {
		vk.DestroyInstance(instance.VKInstance, nil)
		return nil, errors.Wrap(err, "failed to load instance functions")
	}
	return instance, nil
}

// Instance is an instance of the Vulkan subsystem
type Instance struct {
	// VKInstance is the native Vulkan instance object
	VKInstance vk.Instance

	debugCallback vk.DebugReportCallback
}

// VK returns the native instance handle
func (i *Instance) VK() vk.Instance {
	return i.VKInstance
}

// PhysicalDevices returns the physical devices known to Vulkan, at most
// MaxPhysicalDevices of them.
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	return EnumeratePhysicalDevices(i)
}

// EnumeratePhysicalDevices lists the physical devices of instance. More than
// MaxPhysicalDevices is reported as an error rather than silently truncated.
func EnumeratePhysicalDevices(instance InstanceHandle) ([]*PhysicalDevice, error) {
	count := uint32(MaxPhysicalDevices)
	devices := make([]vk.PhysicalDevice, count)
	res := vk.EnumeratePhysicalDevices(instance.VK(), &count, devices)
	if res == vk.Incomplete {
		return nil, ErrTooManyPhysicalDevices
	}
	if err := check(res, "failed to enumerate physical devices"); err != nil {
		return nil, err
	}

	ret := make([]*PhysicalDevice, count)
	for j, device := range devices[:count] {
		ret[j] = newPhysicalDevice(device)
	}
	return ret, nil
}

// FirstPhysicalDevice returns the first enumerated physical device
func (i *Instance) FirstPhysicalDevice() (*PhysicalDevice, error) {
	devices, err := i.PhysicalDevices()
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrNoPhysicalDevice
	}
	return devices[0], nil
}

// ForEachPhysicalDevice calls f for every enumerated physical device
func (i *Instance) ForEachPhysicalDevice(f func(*PhysicalDevice)) error {
	devices, err := i.PhysicalDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		f(d)
	}
	return nil
}

// SetDebugCallback routes validation reports to logger. The instance must
// have been created with the VK_EXT_debug_report extension.
func (i *Instance) SetDebugCallback(logger *slog.Logger) error {
	var callback vk.DebugReportCallback
	err := check(vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: debugReportFunc(logger),
	}, nil, &callback), "failed to create debug report callback")
	if err != nil {
		return err
	}
	i.debugCallback = callback
	return nil
}

// RemoveDebugCallback destroys the callback installed by SetDebugCallback
func (i *Instance) RemoveDebugCallback() {
	if i.debugCallback == vk.NullDebugReportCallback {
		return
	}
	vk.DestroyDebugReportCallback(i.VKInstance, i.debugCallback, nil)
	i.debugCallback = vk.NullDebugReportCallback
}

func debugReportFunc(logger *slog.Logger) vk.DebugReportCallbackFunc {
	return func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
		object uint64, location uint, messageCode int32, pLayerPrefix string,
		pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

		attrs := []any{slog.String("layer", pLayerPrefix), slog.Int("code", int(messageCode))}
		switch {
		case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
			logger.Error(pMessage, attrs...)
		case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
			logger.Warn(pMessage, attrs...)
		case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
			logger.Debug(pMessage, attrs...)
		default:
			logger.Info(pMessage, attrs...)
		}
		return vk.Bool32(vk.False)
	}
}

func (i *Instance) Destroy() {
	vk.DestroyInstance(i.VKInstance, nil)
}
