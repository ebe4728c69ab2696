// File: internal/action/action.go
package action

import "fmt"

// Kind identifies one operation from the closed action vocabulary.
type Kind string

const (
	KindExecuteCommand Kind = "execute_command"

	KindReadFile   Kind = "read_file"
	KindIngestFile Kind = "ingest_file"
	KindWriteFile  Kind = "write_file"
	KindCreateFile Kind = "create_file"
	KindAppendFile Kind = "append_file"
	KindDeleteFile Kind = "delete_file"
	KindCopyFile   Kind = "copy_file"
	KindMoveFile   Kind = "move_file"
	KindRenameFile Kind = "rename_file"
	KindFileHash   Kind = "file_hash"
	KindZipCreate  Kind = "zip_create"
	KindZipExtract Kind = "zip_extract"
	KindDownload   Kind = "download_file"

	KindListDir   Kind = "list_dir"
	KindCreateDir Kind = "create_dir"
	KindDeleteDir Kind = "delete_dir"

	KindSearchFiles   Kind = "search_files"
	KindSearchContent Kind = "search_content"
	KindSearchRegex   Kind = "search_regex"

	KindListProcesses Kind = "list_processes"
	KindKillProcess   Kind = "kill_process"

	KindListServices       Kind = "list_services"
	KindStartService       Kind = "start_service"
	KindStopService        Kind = "stop_service"
	KindListScheduledTasks Kind = "list_scheduled_tasks"

	KindListNetworkConnections Kind = "list_network_connections"
	KindOpenPorts              Kind = "open_ports"
	KindFirewallState          Kind = "firewall_state"
	KindPingHost               Kind = "ping_host"
	KindTracerouteHost         Kind = "traceroute_host"

	KindGetEnv Kind = "get_env"
	KindSetEnv Kind = "set_env"

	KindReadRegistry  Kind = "read_registry"
	KindWriteRegistry Kind = "write_registry"

	KindAnalyzeSystem Kind = "analyze_system"

	KindWebSearch       Kind = "web_search"
	KindFetchURL        Kind = "fetch_url"
	KindKnowledgeSearch Kind = "knowledge_search"

	KindAnswer Kind = "answer"
)

// kinds is the closed set of recognized action kinds.
var kinds = map[Kind]struct{}{
	KindExecuteCommand: {},
	KindReadFile:       {}, KindIngestFile: {}, KindWriteFile: {}, KindCreateFile: {},
	KindAppendFile: {}, KindDeleteFile: {}, KindCopyFile: {}, KindMoveFile: {},
	KindRenameFile: {}, KindFileHash: {}, KindZipCreate: {}, KindZipExtract: {},
	KindDownload: {},
	KindListDir:  {}, KindCreateDir: {}, KindDeleteDir: {},
	KindSearchFiles: {}, KindSearchContent: {}, KindSearchRegex: {},
	KindListProcesses: {}, KindKillProcess: {},
	KindListServices: {}, KindStartService: {}, KindStopService: {}, KindListScheduledTasks: {},
	KindListNetworkConnections: {}, KindOpenPorts: {}, KindFirewallState: {},
	KindPingHost: {}, KindTracerouteHost: {},
	KindGetEnv: {}, KindSetEnv: {},
	KindReadRegistry: {}, KindWriteRegistry: {},
	KindAnalyzeSystem: {},
	KindWebSearch:     {}, KindFetchURL: {}, KindKnowledgeSearch: {},
	KindAnswer: {},
}

// Known reports whether k belongs to the action vocabulary.
func (k Kind) Known() bool {
	_, ok := kinds[k]
	return ok
}

// Sensitive reports whether the kind is destructive or irreversible and must
// pass the confirmation gate before execution. Shell execution is gated
// separately, by command classification.
func (k Kind) Sensitive() bool {
	switch k {
	case KindDeleteFile, KindDeleteDir, KindKillProcess, KindStopService,
		KindWriteRegistry, KindSetEnv:
		return true
	}
	return false
}

// UnknownKindError is returned by Decode when the wire payload names an
// action outside the vocabulary.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown action kind %q", e.Kind)
}
