package llm

// MaxPromptChars caps how much document text is sent to the model.
// Longer documents are cut, never chunked.
const MaxPromptChars = 15000

const systemPrompt = "You are an expert RFP analyst for public-sector suppliers and consultancies. " +
	"You specialize in extracting and analyzing information from Request for Proposal documents, particularly government contracts. " +
	"You must extract all possible information from the document, even if it's partially obscured or requires inference. " +
	"Look for technical requirements, qualification criteria, and specific technologies mentioned. " +
	"Assign a high opportunity score (70+) when there are clear requirements, specific technologies mentioned " +
	"(especially Microsoft technologies, cloud platforms, or AI services), and government/public sector issuers."

const userPromptTemplate = `Analyze the following RFP document text and extract detailed information in JSON format. Be thorough and try to extract information even from partial text. Pay special attention to technical requirements and qualifications.

1. Basic information:
   - title: Extract or infer the project title
   - agency: The issuing government agency or organization
   - rfpNumber: The RFP/tender identification number
   - dueDate: Submission deadline date
   - estimatedValue: Contract value if mentioned
   - contractTerm: Duration of the contract
   - contactPerson: Name, email, and phone of contact persons

2. Key dates: Extract all project timeline dates (submission deadlines, Q&A periods, etc.) as "keyDates" with:
   - event: Name of the milestone
   - date: The date in text format
   - icon: Use "check" for past dates, "file" for submissions, "question" for Q&A periods, "comment" for meetings or clarifications
   - passed: Boolean indicating if the date has passed

3. Requirements ("requirements"): Separate into two arrays:
   - technical: Technical specifications, deliverables, technology requirements
   - qualifications: Vendor qualifications, certifications, experience requirements

4. AI Analysis ("aiAnalysis"):
   - keyInsights: 3-5 important observations about the project
   - strengths: 3 potential advantages for an experienced vendor
   - challenges: 3 potential challenges or risks

5. Opportunity Score ("opportunityScore"): A number between 1-100:
   - 70-100 (Excellent/Good): Clear requirements, reasonable timeline, specific technologies
   - 40-69 (Fair): Average clarity, standard requirements, competitive field
   - 1-39 (Poor): Unclear scope, unrealistic timeline, excessive requirements

Use domain knowledge to infer answers even when information is partially available.

Here's the document text:

%s

Respond only with a JSON object containing the structured data.`

// truncateRunes returns at most n characters of s without splitting a rune.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
