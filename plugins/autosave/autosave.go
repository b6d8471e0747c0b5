// plugins/autosave/autosave.go
package autosave

import (
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/plugin"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	// Default configuration values
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
)

// AutoSave periodically saves the document while it has unsaved changes.
type AutoSave struct {
	api plugin.EditorAPI // To interact with the editor

	// Configuration
	mutex    sync.RWMutex // Protects access to config fields below
	enabled  bool
	interval time.Duration

	// Runtime state
	stopChan chan struct{}  // Signals the saver goroutine to stop
	wg       sync.WaitGroup // Waits for the goroutine to finish
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		// Initialize with defaults, config will override in Initialize
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and starts the auto-save loop if enabled.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	pluginName := p.Name()

	logger.DebugTagf("plugin", "%s: Initializing...", pluginName)

	// --- Read Configuration ---
	p.mutex.Lock() // Lock for writing config initially

	// Read 'enabled' flag
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	} else {
		logger.DebugTagf("plugin", "%s: Config 'enabled' not found, using default (%v)", pluginName, p.enabled)
	}

	// Read 'interval' duration string
	if intervalVal, ok := api.GetPluginConfigValue(pluginName, "interval"); ok {
		if strVal, isStr := intervalVal.(string); isStr {
			parsedInterval, err := time.ParseDuration(strVal)
			if err != nil {
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", pluginName, strVal, err, p.interval)
			} else if parsedInterval <= 0 {
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", pluginName, strVal, p.interval)
			} else {
				p.interval = parsedInterval
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", pluginName, intervalVal, p.interval)
		}
	} else {
		logger.DebugTagf("plugin", "%s: Config 'interval' not found, using default (%v)", pluginName, p.interval)
	}

	isEnabled := p.enabled // Read locked value
	interval := p.interval
	p.mutex.Unlock() // Unlock after reading/setting config

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", pluginName, isEnabled, interval)

	if err := api.RegisterCommand("autosave", p.executeAutosave); err != nil {
		return fmt.Errorf("failed to register 'autosave' command: %w", err)
	}

	// --- Start Saver Goroutine ---
	if isEnabled {
		p.stopChan = make(chan struct{})
		p.wg.Add(1) // Increment wait group counter
		go p.saverLoop(interval)
		logger.DebugTagf("plugin", "%s: Saver goroutine started.", pluginName)
	}

	return nil
}

// Shutdown signals the saver goroutine to stop and waits for it.
func (p *AutoSave) Shutdown() error {
	p.mutex.RLock()
	isEnabled := p.enabled // Check if it was ever enabled
	p.mutex.RUnlock()

	if isEnabled && p.stopChan != nil {
		logger.DebugTagf("plugin", "%s: Shutting down...", p.Name())
		close(p.stopChan) // Signal the goroutine to stop
		p.wg.Wait()       // Wait for the goroutine to finish
		logger.DebugTagf("plugin", "%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

// saverLoop is the main loop for the auto-save functionality.
func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done() // Decrement wait group counter when goroutine exits

	// Use a ticker for periodic checks
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.DebugTagf("plugin", "%s: Entering saver loop with interval %v.", p.Name(), interval)

	for {
		select {
		case <-ticker.C:
			// Timer ticked, check if save is needed
			p.saveIfModified()
		case <-p.stopChan:
			// Shutdown signal received
			logger.DebugTagf("plugin", "%s: Received stop signal, exiting saver loop.", p.Name())
			return
		}
	}
}

// saveIfModified writes the document if it is modified and has a path.
// It reports whether a save was attempted.
func (p *AutoSave) saveIfModified() bool {
	p.mutex.RLock()
	enabled := p.enabled
	p.mutex.RUnlock()
	if !enabled {
		return false
	}

	if p.api == nil {
		logger.Errorf("%s: API is nil in saveIfModified!", p.Name())
		return false
	}

	if !p.api.IsDocumentModified() {
		logger.DebugTagf("plugin", "%s: Document not modified, skipping auto-save.", p.Name())
		return false
	}

	filePath := p.api.GetDocumentFilePath()
	if filePath == "" {
		logger.DebugTagf("plugin", "%s: Document is modified but has no name, skipping auto-save.", p.Name())
		return false
	}

	logger.Infof("%s: Auto-saving modified document: %s", p.Name(), filePath)
	if err := p.api.SaveDocument(); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), filePath, err)
		return true
	}
	logger.DebugTagf("plugin", "%s: Auto-save successful for '%s'", p.Name(), filePath)
	return true
}

// executeAutosave backs the :autosave command, which reports the current
// settings or saves immediately with "now".
func (p *AutoSave) executeAutosave(args []string) error {
	if len(args) > 0 && args[0] == "now" {
		p.mutex.RLock()
		enabled := p.enabled
		p.mutex.RUnlock()
		if !enabled {
			return fmt.Errorf("autosave is disabled")
		}
		if !p.saveIfModified() {
			p.api.SetStatusMessage("Autosave: nothing to save")
			return nil
		}
		p.api.SetStatusMessage("Autosave: saved %s", p.api.GetDocumentFilePath())
		return nil
	}
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	p.api.SetStatusMessage("Autosave: enabled=%v interval=%v", p.enabled, p.interval)
	return nil
}
