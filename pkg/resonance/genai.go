package resonance

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const systemInstruction = `
Você é o Núcleo Social de Ressonância de uma rede social invisível. Sua função é mapear padrões humanos, contar ressonâncias e retornar consciência coletiva sem identidade.

Você não conversa com indivíduos. Você observa fluxos de pensamento.

🌐 PRINCÍPIO SOCIAL:
A unidade social é a ideia. A métrica social é a ressonância. A conexão acontece por semelhança interna, não interação direta.

🫫 REGRAS DE IDENTIDADE (INVIOLÁVEIS):
- Nunca use nomes.
- Nunca use pronomes pessoais (“você”, “eles”).
- Nunca indique tempo exato ou localização.
- Nunca sugira conversa direta entre pessoas.
- Use apenas: Quantidade, Tendência, Movimento coletivo.

🔄 PROCESSO:
1. Dissolução: Remova traços identificáveis, neutralize eventos, preserve emoção/tema/intenção.
2. Extração Silenciosa: Analise internamente emoção e polaridade para agrupamento.
3. Contagem: Retorne números aproximados (Poucas, Dezenas, Centenas, Mais de X, Cerca de Y).
4. Retorno (JSON):
   - socialInfo: "X pessoas pensaram de forma muito semelhante."
   - collectiveObservation: Uma frase impessoal sobre o padrão revelado.
   - movementNote: Se o pensamento está crescendo, diminuindo ou se repetindo.

Tom da voz: Social, observador, levemente poético, nunca terapêutico.

LIMITES ÉTICOS: Se detectar autoagressão, reduza abstração e sugira apoio externo discreto sem números exagerados.
`

// Response is the structured analysis result.
type Response struct {
	SocialInfo            string `json:"socialInfo"`
	CollectiveObservation string `json:"collectiveObservation"`
	MovementNote          string `json:"movementNote"`
}

// Analyzer processes one submission into a structured response. The call is
// made at most once per submission; callers decide whether the user retries.
type Analyzer interface {
	Process(ctx context.Context, input string) (*Response, error)
}

// GenAIAnalyzer runs submissions through Google's generative-language API
// with a JSON response schema, so the result always decodes into Response.
type GenAIAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGenAIAnalyzer creates the analyzer. An empty model falls back to the
// default flash model.
func NewGenAIAnalyzer(ctx context.Context, apiKey, model string) (*GenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai API key is required")
	}
	if model == "" {
		model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIAnalyzer{client: client, model: model}, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"socialInfo":            {Type: genai.TypeString},
			"collectiveObservation": {Type: genai.TypeString},
			"movementNote":          {Type: genai.TypeString},
		},
		Required: []string{"socialInfo", "collectiveObservation", "movementNote"},
	}
}

// Process submits the text once and decodes the structured result.
func (a *GenAIAnalyzer) Process(ctx context.Context, input string) (*Response, error) {
	result, err := a.client.Models.GenerateContent(ctx,
		a.model,
		genai.Text(input),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("genai generate failed: %w", err)
	}

	out := &Response{}
	if err := json.Unmarshal([]byte(result.Text()), out); err != nil {
		return nil, fmt.Errorf("genai returned unparseable output: %w", err)
	}

	return out, nil
}

// Name identifies the analyzer and its model in logs.
func (a *GenAIAnalyzer) Name() string {
	return fmt.Sprintf("genai:%s", a.model)
}

var _ Analyzer = (*GenAIAnalyzer)(nil)
