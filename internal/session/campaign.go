package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCampaignNotFound is returned by Load when the campaign directory is missing.
var ErrCampaignNotFound = errors.New("campaign not found")

// CampaignManager maps worlds and campaigns onto directories under WorldsDir.
// Each campaign holds its event log and an optional actors/ roster.
type CampaignManager struct {
	WorldsDir string
}

// NewCampaignManager returns manager localized to the specified workspace setting directory.
func NewCampaignManager(worldsDir string) *CampaignManager {
	return &CampaignManager{WorldsDir: worldsDir}
}

// GetCampaignPath produces safe joined absolute dir paths.
func (c *CampaignManager) GetCampaignPath(world, campaign string) string {
	return filepath.Join(c.WorldsDir, world, campaign)
}

// DataDirs returns the roster lookup order for a campaign: the campaign's own
// directory first, then its world.
func (c *CampaignManager) DataDirs(world, campaign string) []string {
	return []string{c.GetCampaignPath(world, campaign), filepath.Join(c.WorldsDir, world)}
}

// GetLogPath returns the path to the event log file for a campaign.
func (c *CampaignManager) GetLogPath(world, campaign string) string {
	return filepath.Join(c.GetCampaignPath(world, campaign), "log.jsonl")
}

// Create makes the campaign directory and its roster folder, and returns the log path.
func (c *CampaignManager) Create(world, campaign string) (string, error) {
	path := c.GetCampaignPath(world, campaign)

	dirs := []string{
		path,
		filepath.Join(path, "actors"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logPath := c.GetLogPath(world, campaign)
	return logPath, nil
}

// Load verifies the campaign directory exists and returns the log file path.
func (c *CampaignManager) Load(world, campaign string) (string, error) {
	path := c.GetCampaignPath(world, campaign)
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrCampaignNotFound, path)
	}

	logPath := c.GetLogPath(world, campaign)
	return logPath, nil
}
