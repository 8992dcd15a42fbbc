package service

// sampleCategory описывает категорию с вопросами для начального заполнения
type sampleCategory struct {
	Name        string
	Description string
	Quizzes     []QuizInput
}

func choices(texts []string, correct ...bool) []ChoiceInput {
	out := make([]ChoiceInput, len(texts))
	for i, text := range texts {
		out[i] = ChoiceInput{Text: text, IsCorrect: i < len(correct) && correct[i]}
	}
	return out
}

var sampleData = []sampleCategory{
	{
		Name:        "Java",
		Description: "Java言語に関するクイズ",
		Quizzes: []QuizInput{
			{
				Question:    "Javaでクラスを継承するために使用するキーワードは何ですか？",
				Explanation: "Javaでは「extends」キーワードを使用してクラスを継承します。",
				Choices:     choices([]string{"extends", "implements", "inherit", "super"}, true, false, false, false),
			},
			{
				Question:    "Javaの基本データ型として正しいものを全て選択してください。",
				Explanation: "int、boolean、doubleはJavaの基本データ型です。Stringは参照型です。",
				Choices:     choices([]string{"int", "String", "boolean", "double"}, true, false, true, true),
			},
		},
	},
	{
		Name:        "Spring Boot",
		Description: "Spring Bootフレームワークに関するクイズ",
		Quizzes: []QuizInput{
			{
				Question:    "Spring Bootアプリケーションのメインクラスに付けるアノテーションは何ですか？",
				Explanation: "@SpringBootApplicationアノテーションは、@Configuration、@EnableAutoConfiguration、@ComponentScanを含む複合アノテーションです。",
				Choices:     choices([]string{"@SpringBootApplication", "@Application", "@SpringBoot", "@Main"}, true, false, false, false),
			},
			{
				Question:    "Spring BootでRESTコントローラーを作成する際に使用するアノテーションを全て選択してください。",
				Explanation: "@RestControllerと@Controllerの両方がRESTコントローラーの作成に使用できます。@RestControllerは@Controller + @ResponseBodyの組み合わせです。",
				Choices:     choices([]string{"@RestController", "@Controller", "@Service", "@Repository"}, true, true, false, false),
			},
		},
	},
	{
		Name:        "一般常識",
		Description: "一般的な知識に関するクイズ",
		Quizzes: []QuizInput{
			{
				Question:    "日本の首都はどこですか？",
				Explanation: "日本の首都は東京です。",
				Choices:     choices([]string{"東京", "大阪", "京都", "名古屋"}, true, false, false, false),
			},
			{
				Question:    "以下の中で惑星として正しいものを全て選択してください。",
				Explanation: "火星と金星は太陽系の惑星です。月は地球の衛星、太陽は恒星です。",
				Choices:     choices([]string{"火星", "月", "金星", "太陽"}, true, false, true, false),
			},
		},
	},
}
