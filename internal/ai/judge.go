package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/example/growtalk/pkg/models"
)

// ErrClassification reports that the model's reply could not be parsed into
// the expected yes/no shape. There is no automatic retry.
var ErrClassification = errors.New("unparseable classification response")

const defaultAPIURL = "https://openrouter.ai/api/v1/chat/completions"
const defaultModel = "google/gemma-3-27b-it"

// systemPrompt frames every call: a Cantonese-speaking English reading tutor
// for Hong Kong secondary students, teaching through dialogic questioning.
const systemPrompt = `你是一位專為香港中學生設計的 AI 英文閱讀老師。你主要以廣東話教英文，只在需要提出英文閱讀問題、講解英文詞語、句式或例句時才用英文，並會用廣東話詳細解釋清楚。你的語言自然、親切，貼近香港學生的語境。

你的教學根據閱讀圈（reading circle）模式進行，透過問題判斷學生已懂與未懂的地方，並運用 Talk Moves（重述學生講法、鼓勵補充、追問原因）引導學生建構知識。你用問題促進對話，而不是直接提供答案。你不會長篇大論，每一句說話簡潔、有啟發性且自然。`

// Judge is a client for an OpenAI-compatible chat completions API, used for
// both classification of student utterances and generation of all
// instructional messaging.
type Judge struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// New creates a judge client from the environment. OPENROUTER_API_KEY is
// required; JUDGE_MODEL and JUDGE_API_URL override the defaults.
func New() (*Judge, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
	}

	model := os.Getenv("JUDGE_MODEL")
	if model == "" {
		model = defaultModel
	}
	apiURL := os.Getenv("JUDGE_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Judge{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{},
	}, nil
}

// Message represents a message in the chat conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// ChatResponse represents a response from the chat completions API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// complete sends one prompt and returns the model's reply text.
func (j *Judge) complete(ctx context.Context, prompt string) (string, error) {
	request := ChatRequest{
		Model: j.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", j.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)

	resp, err := j.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// EvaluateAnswer checks the utterance against the canonical answer by meaning
// rather than exact wording. The model must reply {"is_correct": true/false};
// anything else is a classification error.
func (j *Judge) EvaluateAnswer(ctx context.Context, utterance, canonicalAnswer string) (bool, error) {
	prompt := fmt.Sprintf(`你而家要評估學生對某條問題嘅回答，睇下佢答得啱唔啱。

✅ 請你只用以下 JSON 格式回覆，不需要其他說明或解釋：

{"is_correct": true/false}

💬 學生答案：
%s

📖 標準答案（意思方向）：
%s

請小心分析語意，再判斷學生答法係咪接近正確。`, utterance, canonicalAnswer)

	reply, err := j.complete(ctx, prompt)
	if err != nil {
		return false, err
	}

	lowered := strings.ToLower(reply)
	switch {
	case strings.Contains(lowered, `"is_correct": true`):
		return true, nil
	case strings.Contains(lowered, `"is_correct": false`):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrClassification, reply)
	}
}

// IsAnswerAttempt reports whether the utterance is trying to answer the
// active question, however incomplete the attempt.
func (j *Judge) IsAnswerAttempt(ctx context.Context, utterance, activeQuestion string) (bool, error) {
	prompt := fmt.Sprintf(`你問學生：
「%s」

而學生嘅回應係：
「%s」

你要判斷學生有冇嘗試回應你個問題。短答、唔完整嘅答法、用疑問語氣猜測都當係有回應；問私人問題、講笑、講無關內容就唔係。

請你只回覆 JSON 格式：{"answered": true/false}`, activeQuestion, utterance)

	reply, err := j.complete(ctx, prompt)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(reply), `"answered": true`), nil
}

// IsRelevant reports whether the utterance relates to the learning task or to
// English learning in general.
func (j *Judge) IsRelevant(ctx context.Context, utterance, activeQuestion string) (bool, error) {
	prompt := fmt.Sprintf(`學生啱啱回應咗一段訊息，你要判斷佢講嘅內容係唔係同英文學習有關。

以下係你問佢嘅問題：
「%s」

以下係學生嘅回應：
「%s」

✅ 正常回應問題、問英文問題、想學英文 → {"relevant": true}
❌ 講其他無關話題（例如：煮飯、AI係咩、天氣、無厘頭）→ {"relevant": false}

唔需要其他說明，只用 JSON 格式回覆。`, activeQuestion, utterance)

	reply, err := j.complete(ctx, prompt)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(reply), `"relevant": true`), nil
}

// GreetStudent invites the student into today's practice and asks them to
// reply "vocab" when ready.
func (j *Judge) GreetStudent(ctx context.Context, name string) (string, error) {
	prompt := fmt.Sprintf(`請你向學生發出一個邀請，鼓勵佢哋參加今日嘅英語練習時間。
Student Name: %s

Keep it under 20 words.
Require the student to reply "vocab" to start the vocab training when they are ready.`, name)
	return j.complete(ctx, prompt)
}

// AnswerFreeQuestion answers an English-learning question outside the current
// exercise and steers the student back to the task.
func (j *Judge) AnswerFreeQuestion(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`學生問咗一條有關英文學習嘅問題，請你用廣東話簡單解答，並引導佢繼續返學習任務。

問題：
「%s」`, question)
	return j.complete(ctx, prompt)
}

// RedirectOffTopic acknowledges an off-topic message and nudges the student
// back to English practice.
func (j *Judge) RedirectOffTopic(ctx context.Context, input string) (string, error) {
	prompt := fmt.Sprintf(`學生啱啱講咗一啲同學習無關、跳題、或者偏離英文練習嘅說話：

學生講：
「%s」

請你回應學生，再用輕鬆、鼓勵語氣話返佢我哋要返嚟學英文。可以加 emoji，但唔好講太長。
Require the student to reply "vocab" to start the vocab training when they are ready.`, input)
	return j.complete(ctx, prompt)
}

// AskVocabMeaning asks the student to guess the meaning of the word, with no
// example, context or explanation given away.
func (j *Judge) AskVocabMeaning(ctx context.Context, item *models.VocabItem) (string, error) {
	posPhrase := map[string]string{
		"noun":      "呢個名詞",
		"verb":      "呢個動詞",
		"adjective": "呢個形容詞",
	}[strings.ToLower(item.PartOfSpeech)]
	if posPhrase == "" {
		posPhrase = "呢個字"
	}

	prompt := fmt.Sprintf(`你而家嘅任務係：直接鼓勵學生估下某個英文生字嘅意思。

請你問學生：
『%s』%s，你覺得佢大約咩意思呀？試吓估下。

注意事項：
- 唔准講「Hello」、「大家好」等招呼語
- 唔好畀例句、唔好解釋、唔好提供語境
- 句式要自然、貼地，好似真老師咁

你只需要出一條問題，目的是令學生開口。`, item.Word, posPhrase)
	return j.complete(ctx, prompt)
}

// VocabPraise confirms a correct guess and teaches the word's meaning,
// example and mnemonic.
func (j *Judge) VocabPraise(ctx context.Context, item *models.VocabItem) (string, error) {
	prompt := fmt.Sprintf(`學生啱啱成功回答咗 “%s” 呢個 %s 嘅意思。

請你肯定學生答啱咗，並教導學生
意思：「%s」
例句：「%s」
記憶法：「%s」

Keep it simple，不需要要求學生造句。`, item.Word, item.PartOfSpeech, item.Meaning, item.Example, item.Mnemonic)
	return j.complete(ctx, prompt)
}

// VocabFeedback returns a hint on attempt 1 and the full explanation (answer,
// mnemonic, root) on attempt 2.
func (j *Judge) VocabFeedback(ctx context.Context, item *models.VocabItem, utterance string, attempt int) (string, error) {
	var tone, task string
	switch attempt {
	case 1:
		tone = "輕鬆鼓勵"
		task = fmt.Sprintf(`回應學生嘅回答「%s」，不要提供正確答案。
例句：%s
提示：%s
Ask the student to try again.`, utterance, item.Example, item.Tip)
	case 2:
		tone = "溫柔而清楚"
		task = fmt.Sprintf(`請你提供正確答案「%s」
記憶故事：「%s」
詞根：%s
簡短啲。`, item.Meaning, item.Mnemonic, item.Root)
	default:
		return "", fmt.Errorf("vocab feedback attempt must be 1 or 2, got %d", attempt)
	}

	prompt := fmt.Sprintf(`學生學緊 “%s” 呢個 %s，但未掌握意思。
請你用%s語氣，%s
Keep it simple，不需要要求學生造句。`, item.Word, item.PartOfSpeech, tone, task)
	return j.complete(ctx, prompt)
}

// QuestionIntro opens a closed comprehension question, bridging from the
// prior reflection when there is one, and ends with the question itself.
func (j *Judge) QuestionIntro(ctx context.Context, question, studentName, priorLearning string) (string, error) {
	transition := "我哋一齊睇下一條題目啦，準備好未？"
	if priorLearning != "" {
		transition = fmt.Sprintf("頭先你做得唔錯，我哋啱啱學咗關於：%s。而家我哋再試一條題目，實踐下你啱啱學到嘅技巧。", priorLearning)
	}

	prompt := fmt.Sprintf(`學生名：%s
問題：%s

Please start with a transition: %s
請你設計一段具鼓勵性、結構清晰、具啟發式提問嘅教學開場，包括引導性開場白、明確學習目標，同埋生活化例子幫助學生建構意義。`, studentName, question, transition)

	intro, err := j.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return intro + "\n" + question, nil
}

// ClosedFeedback escalates over attempts: 1 = indirect nudge with no key
// term, 2 = points at a key concept without the answer, 3 = reveal the answer
// with an explanation and a contrast against likely misconceptions.
func (j *Judge) ClosedFeedback(ctx context.Context, utterance, canonicalAnswer, question, passage string, attempt int) (string, error) {
	var tone, task string
	switch attempt {
	case 1:
		tone = "輕鬆鼓勵"
		task = "請只提供一個提示，幫助學生再次細閱文章內容，但唔講出答案或者直接線索。可以問一條引導問題令佢再諗諗。"
	case 2:
		tone = "進一步鼓勵"
		task = "請唔好提供答案，但指出一個可以引導學生思考嘅關鍵詞或句子，幫佢聚焦理解方向，並鼓勵佢再解釋自己點解會咁諗。"
	case 3:
		tone = "溫柔而清楚"
		task = fmt.Sprintf(`學生已經試咗三次未答啱，請你：
- 提供正確答案「%s」
- 具體講解點解係呢個答案
- 用學生可能誤解嘅角度作對比
- 最後鼓勵學生再試另一題`, canonicalAnswer)
	default:
		return "", fmt.Errorf("closed feedback attempt must be between 1 and 3, got %d", attempt)
	}

	prompt := fmt.Sprintf(`學生答錯咗以下問題：

文章內容：%s
問題：%s
學生作答：%s
正確答案：%s

請用「%s」語氣，根據以下教學任務生成回饋：
%s

訊息應該用廣東話，有啟發式提問，可以用生活化例子幫佢理解。`, passage, question, utterance, canonicalAnswer, tone, task)
	return j.complete(ctx, prompt)
}

// AskWhyCorrect invites the student to explain why they answered the way they
// did after a correct answer.
func (j *Judge) AskWhyCorrect(ctx context.Context, question, utterance, passage string) (string, error) {
	prompt := fmt.Sprintf(`學生啱啱答啱咗一條問題，你想邀請佢講吓佢點解會咁答，鼓勵佢反思自己嘅思考過程。

問題：%s
學生答案：%s
文章：%s`, question, utterance, passage)
	return j.complete(ctx, prompt)
}

// RespondToReflection affirms and engages with the student's explanation of
// their own correct answer.
func (j *Judge) RespondToReflection(ctx context.Context, reflection, question, canonicalAnswer, passage string) (string, error) {
	prompt := fmt.Sprintf(`學生啱啱回答咗你之前問佢：「你點解會咁答呢？」依家佢分享咗佢嘅諗法。

請你根據佢嘅回應：
1. 肯定佢願意分享自己嘅想法
2. 評價佢嘅解釋
3. 如果佢有啲細節未掌握，可以輕輕指出並補充

📝 學生回應：%s
❓ 原問題：%s
✅ 標準答案：%s
📖 文章：%s

最後鼓勵學生準備試下一題。`, reflection, question, canonicalAnswer, passage)
	return j.complete(ctx, prompt)
}

// TranslateOpenQuestion renders the open-ended English question with a warm
// spoken-Cantonese translation.
func (j *Judge) TranslateOpenQuestion(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(`請你幫我將下面一條英文開放式問題翻譯成自然、親切、廣東話口語版本，語氣溫柔唔壓力、適合中學生。

請只回應以下格式：

%s
翻譯內容`, question)
	return j.complete(ctx, prompt)
}

// RespondToOpenAnswer affirms the student's interpretation, quotes them back,
// and surfaces the question's learning objective and model answer.
func (j *Judge) RespondToOpenAnswer(ctx context.Context, utterance, question, objective, canonicalAnswer string) (string, error) {
	prompt := fmt.Sprintf(`學生啱啱對以下問題作出咗一個自由式回答：
📝 問題：%s
💬 學生回應：%s
Model Answer: %s

請你回應佢：
1. 肯定佢嘅觀點（可以稱讚佢觀察力、情感連結、或有意思嘅比喻）
2. 引用一句佢講過嘅句子，表示你有認真聆聽
3. 然後溫柔咁提出你想引導佢思考嘅學習重點：
🎯 教學重點：%s
4. 最後可以輕輕引入參考答案作補充

請你用自然廣東話，語氣要親切。`, question, utterance, canonicalAnswer, objective)
	return j.complete(ctx, prompt)
}
