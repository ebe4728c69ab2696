// File: internal/planner/planner.go
package planner

import (
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

// FeedbackPrefix introduces an action result fed back into the next
// decision turn. The planner keys its plan advancement on it.
const FeedbackPrefix = "A ação anterior retornou o seguinte resultado:\n"

var (
	quotedRe = regexp.MustCompile(`"([^"]+)"`)
	urlRe    = regexp.MustCompile(`https?://\S+`)
	pidRe    = regexp.MustCompile(`pid\s*(\d+)`)
	hostRe   = regexp.MustCompile(`\b([\w.\-]+\.[\w.\-]+|\d+\.\d+\.\d+\.\d+)\b`)
	countRe  = regexp.MustCompile(`\b(\d+)\s*vezes|\b(\d+)\b`)
	extRe    = regexp.MustCompile(`\.\w+`)
)

var hardwareKeywords = []string{
	"caracteristicas da maquina", "características da máquina", "detalhes da maquina",
	"ano de fabricação", "ano de fabricacao", "especificações", "hardware",
}

// Planner is the deterministic decision strategy used when the inference
// service is unavailable or offline mode is forced. It matches the task text
// against the command library, a built-in hardware audit plan and an ordered
// set of keyword rules, tracking one multi-step plan at a time.
type Planner struct {
	logger  *zap.Logger
	library *Library
	windows bool
	plan    *Plan
}

// NewPlanner returns a Planner backed by the given command library.
func NewPlanner(library *Library, logger *zap.Logger) *Planner {
	return &Planner{
		logger:  logger.Named("planner"),
		library: library,
		windows: runtime.GOOS == "windows",
	}
}

// HasLibraryMatch reports whether the task matches a command-library alias.
// Library matches bypass the inference service even when it is healthy.
func (p *Planner) HasLibraryMatch(task string) bool {
	return p.library.Match(strings.ToLower(task)) != nil
}

// ActivePlan exposes the in-progress plan, or nil.
func (p *Planner) ActivePlan() *Plan { return p.plan }

// Decide maps a task (or an action-result feedback message) to the raw JSON
// of the next decision. It never fails; unrecognized input degrades to a
// terminal answer explaining the offline capabilities.
func (p *Planner) Decide(task string) string {
	t := strings.ToLower(task)

	// An action result advances the active plan before anything else; with
	// no plan pending the single command is considered complete.
	if idx := strings.Index(t, strings.ToLower(FeedbackPrefix)); idx != -1 {
		if p.plan != nil {
			p.plan.Outputs = append(p.plan.Outputs, task[idx+len(FeedbackPrefix):])
			p.plan.Index++
		} else {
			return encode(
				"Recebi o resultado da ação anterior e não há plano pendente. Finalizando.",
				action.KindAnswer,
				action.Params{"answer": "Ação executada com sucesso. Verifique o resultado acima."},
			)
		}
	}

	if p.plan == nil {
		if item := p.library.Match(t); item != nil {
			p.plan = planFromLibrary(item)
			p.logger.Info("Starting command-library plan",
				zap.String("plan", p.plan.Name), zap.Int("steps", len(p.plan.Steps)))
		} else if containsAny(t, hardwareKeywords) {
			p.plan = &Plan{Name: hardwarePlanName, Steps: hardwareAuditSteps()}
			p.logger.Info("Starting hardware audit plan")
		}
	}

	if p.plan != nil {
		return p.advancePlan()
	}

	for _, r := range rules {
		if !containsAny(t, r.keywords) {
			continue
		}
		if d := r.build(p, task, t); d != "" {
			return d
		}
	}

	if url := urlRe.FindString(task); url != "" || containsAny(t, []string{"web", "url", "http", "https"}) {
		if url != "" {
			return encode("Modo offline: vou buscar conteúdo da URL informada.",
				action.KindFetchURL, action.Params{"url": url})
		}
		return encode("Sem URL específica disponível para buscar.",
			action.KindAnswer, action.Params{"answer": "Forneça uma URL para que eu possa buscar o conteúdo."})
	}

	return encode(
		"LLM indisponível. Operando em modo offline com ferramentas locais.",
		action.KindAnswer,
		action.Params{"answer": "Posso executar comandos locais (ex.: systeminfo, Get-CimInstance) e buscar conhecimento. Ative o Ollama para respostas de IA."},
	)
}

// advancePlan emits the next step of the active plan, or its terminal answer
// when every step has reported back.
func (p *Planner) advancePlan() string {
	plan := p.plan
	if !plan.Done() {
		step := plan.Current()
		thought := "Modo offline: executando passo '" + step.Label + "'."
		if plan.Name == hardwarePlanName {
			thought = "Modo offline: coletando informações de " + step.Label + "."
		}
		params := action.Params{"command": step.Command}
		if step.Powershell {
			params["powershell"] = true
		}
		return encode(thought, action.KindExecuteCommand, params)
	}

	p.plan = nil
	if plan.Name == hardwarePlanName {
		year := estimateYear(plan.Outputs)
		return encode(
			"Coleta concluída. Apresentando resumo das características e ano estimado.",
			action.KindAnswer,
			action.Params{"answer": summarizeHardware(plan.Outputs, year)},
		)
	}
	return encode(
		"Todos os passos do plano foram executados.",
		action.KindAnswer,
		action.Params{"answer": "Plano concluído com sucesso. Consulte as saídas acima para detalhes."},
	)
}

func planFromLibrary(item *LibraryItem) *Plan {
	steps := make([]Step, 0, len(item.Plan))
	for _, st := range item.Plan {
		label := st.Label
		if label == "" {
			label = item.Title
			if label == "" {
				label = "cmd"
			}
		}
		steps = append(steps, Step{Label: label, Command: st.Command, Powershell: st.Powershell})
	}
	name := item.ID
	if name == "" {
		name = "custom_plan"
	}
	return &Plan{Name: name, Steps: steps, NeedsConfirmation: item.Confirmation}
}

// rule pairs trigger keywords with a decision builder. A builder returning
// "" lets lower-priority rules try the same task.
type rule struct {
	keywords []string
	build    func(p *Planner, task, t string) string
}

// rules are checked in order; the first one that both matches and builds a
// decision wins.
var rules = []rule{
	{[]string{"criar arquivo", "create file", "novo arquivo"}, func(p *Planner, task, t string) string {
		quotes := quoted(task)
		if len(quotes) == 0 {
			return encode("Sem caminho informado para criação de arquivo.", action.KindAnswer,
				action.Params{"answer": `Informe o caminho do arquivo entre aspas, por exemplo: criar arquivo "C:/temp/novo.txt" "conteúdo".`})
		}
		content := ""
		if len(quotes) > 1 {
			content = quotes[1]
		}
		return encode("Modo offline: vou criar o arquivo solicitado.", action.KindCreateFile,
			action.Params{"path": quotes[0], "content": content})
	}},
	{[]string{"deletar arquivo", "apagar arquivo", "remover arquivo", "delete file", "remove file"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: vou solicitar deleção do arquivo informado.", action.KindDeleteFile,
				action.Params{"path": quotes[0]})
		}
		return encode("Sem caminho informado para deleção de arquivo.", action.KindAnswer,
			action.Params{"answer": `Informe o caminho do arquivo entre aspas, por exemplo: deletar arquivo "C:/temp/antigo.log".`})
	}},
	{[]string{"listar diretório", "listar diretorio", "listar pasta", "list directory"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: listando itens do diretório especificado.", action.KindListDir,
				action.Params{"path": quotes[0], "recursive": strings.Contains(t, "recurs")})
		}
		return encode("Sem caminho informado para listar diretório.", action.KindAnswer,
			action.Params{"answer": `Informe o caminho do diretório entre aspas, ex.: listar diretório "C:/temp".`})
	}},
	{[]string{"criar diretório", "criar diretorio", "create directory", "make dir", "mkdir"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: criando diretório solicitado.", action.KindCreateDir,
				action.Params{"path": quotes[0]})
		}
		return encode("Sem caminho informado para criação de diretório.", action.KindAnswer,
			action.Params{"answer": `Informe o caminho do diretório entre aspas, ex.: criar diretório "C:/temp/novo".`})
	}},
	{[]string{"deletar diretório", "apagar diretório", "remover diretório", "delete directory", "remove directory"}, func(p *Planner, task, t string) string {
		recursive := strings.Contains(t, "recurs") || strings.Contains(t, "tudo") || strings.Contains(t, "conteúdo")
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: solicitando deleção do diretório informado.", action.KindDeleteDir,
				action.Params{"path": quotes[0], "recursive": recursive})
		}
		return encode("Sem caminho informado para deleção de diretório.", action.KindAnswer,
			action.Params{"answer": `Informe o caminho do diretório entre aspas, ex.: deletar diretório "C:/temp/antigo".`})
	}},
	{[]string{"copiar arquivo", "copy file"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) >= 2 {
			return encode("Modo offline: copiando arquivo de origem para destino.", action.KindCopyFile,
				action.Params{"src": quotes[0], "dst": quotes[1]})
		}
		return encode("Faltam origem e destino para cópia.", action.KindAnswer,
			action.Params{"answer": `Use duas aspas: copiar arquivo "C:/a.txt" "C:/b.txt".`})
	}},
	{[]string{"mover arquivo", "move file"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) >= 2 {
			return encode("Modo offline: movendo arquivo.", action.KindMoveFile,
				action.Params{"src": quotes[0], "dst": quotes[1]})
		}
		return encode("Faltam origem e destino para mover.", action.KindAnswer,
			action.Params{"answer": `Use duas aspas: mover arquivo "C:/a.txt" "C:/pasta/a.txt".`})
	}},
	{[]string{"renomear arquivo", "rename file"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) >= 2 {
			return encode("Modo offline: renomeando arquivo.", action.KindRenameFile,
				action.Params{"path": quotes[0], "new_path": quotes[1]})
		}
		return encode("Faltam caminho antigo e novo para renomear.", action.KindAnswer,
			action.Params{"answer": `Use duas aspas: renomear arquivo "C:/a.txt" "C:/b.txt".`})
	}},
	{[]string{"anexar", "append", "adicionar ao arquivo"}, func(p *Planner, task, t string) string {
		quotes := quoted(task)
		if len(quotes) == 0 {
			return encode("Sem caminho para anexar conteúdo.", action.KindAnswer,
				action.Params{"answer": `Informe caminho e conteúdo entre aspas: anexar "C:/log.txt" "linha".`})
		}
		content := ""
		if len(quotes) > 1 {
			content = quotes[1]
		}
		return encode("Modo offline: anexando conteúdo ao arquivo.", action.KindAppendFile,
			action.Params{"path": quotes[0], "content": content})
	}},
	{[]string{"hash", "checksum", "sha256"}, func(p *Planner, task, t string) string {
		algo := "sha256"
		if strings.Contains(t, "md5") {
			algo = "md5"
		} else if strings.Contains(t, "sha1") {
			algo = "sha1"
		}
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: calculando hash do arquivo.", action.KindFileHash,
				action.Params{"path": quotes[0], "algorithm": algo})
		}
		return encode("Sem arquivo para calcular hash.", action.KindAnswer,
			action.Params{"answer": "Informe o caminho do arquivo entre aspas."})
	}},
	{[]string{"zip", "zipar", "criar zip"}, func(p *Planner, task, t string) string {
		if strings.Contains(t, "extrair") || strings.Contains(t, "descompactar") || strings.Contains(t, "unzip") {
			return "" // handled by the extraction rule below
		}
		if quotes := quoted(task); len(quotes) >= 2 {
			return encode("Modo offline: criando arquivo ZIP.", action.KindZipCreate,
				action.Params{"source": quotes[0], "zip_path": quotes[1]})
		}
		return encode("Faltam origem e destino para ZIP.", action.KindAnswer,
			action.Params{"answer": `Use duas aspas: criar zip "C:/pasta" "C:/backup.zip".`})
	}},
	{[]string{"extrair zip", "unzip", "descompactar"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) >= 2 {
			return encode("Modo offline: extraindo arquivo ZIP.", action.KindZipExtract,
				action.Params{"zip_path": quotes[0], "dest": quotes[1]})
		}
		return encode("Faltam ZIP e destino.", action.KindAnswer,
			action.Params{"answer": `Use duas aspas: extrair zip "C:/backup.zip" "C:/restaurado".`})
	}},
	{[]string{"baixar", "download"}, func(p *Planner, task, t string) string {
		url := urlRe.FindString(task)
		quotes := quoted(task)
		dest := ""
		if len(quotes) > 0 {
			dest = quotes[len(quotes)-1]
		}
		if url != "" && dest != "" {
			return encode("Modo offline: realizando download.", action.KindDownload,
				action.Params{"url": url, "dest": dest})
		}
		return encode("Faltam URL e destino para download.", action.KindAnswer,
			action.Params{"answer": `Ex.: baixar https://site/arquivo.zip "C:/temp/arquivo.zip".`})
	}},
	{[]string{"listar processos", "processos", "process list"}, func(p *Planner, task, t string) string {
		return encode("Modo offline: listando processos em execução.", action.KindListProcesses,
			action.Params{"top_n": 20})
	}},
	{[]string{"encerrar processo", "matar processo", "kill process", "terminar processo"}, func(p *Planner, task, t string) string {
		if m := pidRe.FindStringSubmatch(t); m != nil {
			pid, _ := strconv.Atoi(m[1])
			return encode("Modo offline: solicitando encerramento por PID.", action.KindKillProcess,
				action.Params{"pid": pid})
		}
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: solicitando encerramento por nome.", action.KindKillProcess,
				action.Params{"name": quotes[0]})
		}
		return encode("Sem PID ou nome para encerrar.", action.KindAnswer,
			action.Params{"answer": `Indique PID (ex.: pid 1234) ou nome entre aspas.`})
	}},
	{[]string{"listar serviços", "servicos", "list services"}, func(p *Planner, task, t string) string {
		filter := ""
		if quotes := quoted(task); len(quotes) > 0 {
			filter = quotes[0]
		}
		return encode("Modo offline: listando serviços.", action.KindListServices,
			action.Params{"filter": filter})
	}},
	{[]string{"iniciar serviço", "start service"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: iniciando serviço.", action.KindStartService,
				action.Params{"name": quotes[0]})
		}
		return ""
	}},
	{[]string{"parar serviço", "stop service"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: parando serviço.", action.KindStopService,
				action.Params{"name": quotes[0]})
		}
		return ""
	}},
	{[]string{"tarefas agendadas", "scheduled tasks", "listar tarefas"}, func(p *Planner, task, t string) string {
		return encode("Modo offline: listando tarefas agendadas.", action.KindListScheduledTasks, action.Params{})
	}},
	{[]string{"conexões de rede", "network connections", "listar conexões"}, func(p *Planner, task, t string) string {
		return encode("Modo offline: listando conexões de rede.", action.KindListNetworkConnections, action.Params{})
	}},
	{[]string{"portas abertas", "open ports", "escuta"}, func(p *Planner, task, t string) string {
		return encode("Modo offline: mostrando portas em escuta.", action.KindOpenPorts, action.Params{})
	}},
	{[]string{"firewall", "estado do firewall"}, func(p *Planner, task, t string) string {
		return encode("Modo offline: consultando estado do firewall.", action.KindFirewallState, action.Params{})
	}},
	{[]string{"ping", "teste de latência"}, func(p *Planner, task, t string) string {
		host := ""
		if quotes := quoted(task); len(quotes) > 0 {
			host = quotes[0]
		} else if m := hostRe.FindString(t); m != "" {
			host = m
		}
		count := 4
		if m := countRe.FindStringSubmatch(t); m != nil {
			if m[1] != "" {
				count, _ = strconv.Atoi(m[1])
			} else if m[2] != "" {
				count, _ = strconv.Atoi(m[2])
			}
		}
		if host != "" {
			return encode("Modo offline: executando ping.", action.KindPingHost,
				action.Params{"host": host, "count": count})
		}
		return encode("Sem host para ping.", action.KindAnswer,
			action.Params{"answer": `Informe um host/IP para ping (ex.: "8.8.8.8").`})
	}},
	{[]string{"traceroute", "tracert", "rota"}, func(p *Planner, task, t string) string {
		host := ""
		if quotes := quoted(task); len(quotes) > 0 {
			host = quotes[0]
		} else if m := hostRe.FindString(t); m != "" {
			host = m
		}
		if host != "" {
			return encode("Modo offline: executando traceroute.", action.KindTracerouteHost,
				action.Params{"host": host})
		}
		return encode("Sem host para traceroute.", action.KindAnswer,
			action.Params{"answer": `Informe um host/IP para traceroute (ex.: "8.8.8.8").`})
	}},
	{[]string{"obter variável", "get env", "ler variável de ambiente"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: lendo variável de ambiente.", action.KindGetEnv,
				action.Params{"name": quotes[0]})
		}
		return ""
	}},
	{[]string{"definir variável", "set env", "exportar variável"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) >= 2 {
			return encode("Modo offline: definindo variável de ambiente.", action.KindSetEnv,
				action.Params{"name": quotes[0], "value": quotes[1]})
		}
		return ""
	}},
	{[]string{"ler registro", "read registry", "consultar registro"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: lendo chave do registro.", action.KindReadRegistry,
				action.Params{"path": quotes[0]})
		}
		return ""
	}},
	{[]string{"escrever registro", "write registry", "definir chave"}, func(p *Planner, task, t string) string {
		if quotes := quoted(task); len(quotes) >= 3 {
			return encode("Modo offline: escrevendo valor no registro.", action.KindWriteRegistry,
				action.Params{"path": quotes[0], "name": quotes[1], "value": quotes[2], "type": "String"})
		}
		return ""
	}},
	{[]string{"regex", "expressão regular", "expressao regular"}, func(p *Planner, task, t string) string {
		ext := extRe.FindString(t)
		if quotes := quoted(task); len(quotes) > 0 {
			return encode("Modo offline: buscando por regex.", action.KindSearchRegex,
				action.Params{"pattern": quotes[0], "extension": ext})
		}
		return ""
	}},
	{[]string{"analisar sistema", "auditoria", "telemetria", "analyze system", "system audit"}, func(p *Planner, task, t string) string {
		return encode("Modo offline: coletando análise detalhada do sistema.", action.KindAnalyzeSystem, action.Params{})
	}},
	{[]string{"listar", "arquivos", "dir", "ls", "listar arquivos"}, func(p *Planner, task, t string) string {
		cmd := "ls -la"
		if p.windows {
			cmd = "dir"
		}
		return encode("Modo offline: vou listar arquivos usando comando do sistema.", action.KindExecuteCommand,
			action.Params{"command": cmd})
	}},
	{[]string{"comando", "windows", "conhecimento", "ajuda", "manual"}, func(p *Planner, task, t string) string {
		return encode("Modo offline: vou consultar base de conhecimento local.", action.KindKnowledgeSearch,
			action.Params{"query": task, "top_k": 5})
	}},
}

func containsAny(t string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

func quoted(task string) []string {
	var out []string
	for _, m := range quotedRe.FindAllStringSubmatch(task, -1) {
		out = append(out, m[1])
	}
	return out
}

func encode(thought string, kind action.Kind, params action.Params) string {
	d := action.Decision{Thought: thought, Kind: kind, Params: params}
	return d.Encode()
}
