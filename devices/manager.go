package devices

import (
	"errors"
	"fmt"
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mobile-next/mobile-mcp/types"
	"github.com/mobile-next/mobile-mcp/utils"
)

const robotCacheSize = 16

// Manager owns device discovery and the currently selected robot. The
// selected pointer is process-wide mutable state; a device switch
// racing an in-flight operation is an accepted narrow window since the
// agent client issues calls one at a time.
type Manager struct {
	mu       sync.Mutex
	selected Robot

	// resolved robots by device id, so reselecting a device reuses
	// its session state instead of rebuilding it
	cache *lru.Cache[string, Robot]

	// enumerators are replaced in tests
	enumerators map[string]func() ([]Robot, error)
}

func NewManager() *Manager {
	cache, _ := lru.New[string, Robot](robotCacheSize)

	m := &Manager{cache: cache}
	m.enumerators = map[string]func() ([]Robot, error){
		"android":   GetAndroidRobots,
		"ios":       GetIosRobots,
		"simulator": GetSimulatorRobots,
	}

	// the unified helper would re-list devices the native back ends
	// already cover, so it only joins discovery when explicitly
	// configured
	if os.Getenv("MOBILECLI_PATH") != "" {
		m.enumerators["mobilecli"] = GetMobileCliRobots
	}

	return m
}

// ListRobots enumerates every reachable device across all back ends.
// A back end failing to enumerate (missing adb, no Xcode) hides its
// devices but does not fail discovery as a whole.
func (m *Manager) ListRobots() ([]Robot, error) {
	var robots []Robot
	for kind, enumerate := range m.enumerators {
		found, err := enumerate()
		if err != nil {
			utils.Warn("failed to enumerate %s devices: %v", kind, err)
			continue
		}
		robots = append(robots, found...)
	}

	return robots, nil
}

// ListDeviceInfo returns the discovery result in the shared data model.
func (m *Manager) ListDeviceInfo() ([]types.DeviceInfo, error) {
	robots, err := m.ListRobots()
	if err != nil {
		return nil, err
	}

	infos := make([]types.DeviceInfo, 0, len(robots))
	for _, robot := range robots {
		infos = append(infos, types.DeviceInfo{
			ID:       robot.ID(),
			Name:     robot.Name(),
			Platform: robot.Platform(),
			Type:     robot.DeviceType(),
			Version:  robot.Version(),
		})
	}

	return infos, nil
}

// UseDevice selects the device to route subsequent operations to.
// deviceType narrows the search to one back end ("android", "ios",
// "simulator"); empty searches all of them. Selecting starts the
// device's agent when it needs one.
func (m *Manager) UseDevice(id, deviceType string) (Robot, error) {
	if id == "" {
		return nil, fmt.Errorf("device id must not be empty")
	}

	robot, err := m.resolve(id, deviceType)
	if err != nil {
		return nil, err
	}

	if err := robot.StartAgent(); err != nil {
		return nil, fmt.Errorf("failed to prepare device %s: %w", id, err)
	}

	m.mu.Lock()
	m.selected = robot
	m.mu.Unlock()

	return robot, nil
}

func (m *Manager) resolve(id, deviceType string) (Robot, error) {
	if robot, ok := m.cache.Get(id); ok {
		return robot, nil
	}

	enumerators := m.enumerators
	if deviceType != "" {
		enumerate, ok := enumerators[deviceType]
		if !ok {
			return nil, fmt.Errorf("unknown device type: %q, use android, ios or simulator", deviceType)
		}
		enumerators = map[string]func() ([]Robot, error){deviceType: enumerate}
	}

	for kind, enumerate := range enumerators {
		robots, err := enumerate()
		if err != nil {
			utils.Warn("failed to enumerate %s devices: %v", kind, err)
			continue
		}

		for _, robot := range robots {
			if robot.ID() == id {
				m.cache.Add(id, robot)
				return robot, nil
			}
		}
	}

	return nil, fmt.Errorf("device %q not found. Use the list_available_devices tool to see what is connected", id)
}

// Selected returns the active robot, or an error when no device has
// been picked yet.
func (m *Manager) Selected() (Robot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected == nil {
		return nil, errors.New("No device selected. Call the use_device tool first.")
	}

	return m.selected, nil
}
