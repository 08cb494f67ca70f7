package ipc

// Request/response channels.
const (
	ChannelScanDesktop             = "scan-desktop"
	ChannelClassifyApps            = "classify-apps"
	ChannelGetApps                 = "get-apps"
	ChannelGetCategories           = "get-categories"
	ChannelOpenApp                 = "open-app"
	ChannelSaveConfig              = "save-config"
	ChannelResetConfig             = "reset-config"
	ChannelGetClassificationStatus = "get-classification-status"
)

// Fire-and-forget window channels.
const (
	ChannelMinimizeWindow = "minimize-window"
	ChannelMaximizeWindow = "maximize-window"
	ChannelCloseWindow    = "close-window"
)
